package services

import (
	"errors"

	"github.com/ammarlogade-max/Student-Expense-Analyzer/config"
	"github.com/ammarlogade-max/Student-Expense-Analyzer/models"
	"github.com/ammarlogade-max/Student-Expense-Analyzer/utils"

	"github.com/google/uuid"
)

func RegisterUser(email, password, fullName string) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		PublicID: uuid.NewString(),
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
		Disabled: false,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func AuthenticateUser(email, password string) (string, *models.User, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return "", nil, errors.New("user not found or disabled")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, errors.New("incorrect password")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}

func FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := config.DB.Where("id = ? AND disabled = ?", id, false).First(&user).Error; err != nil {
		return nil, errors.New("user not found or disabled")
	}
	return &user, nil
}
