package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinic-api/internal/model"
	"clinic-api/internal/service"
)

type signupRequest struct {
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Password        string     `json:"password"`
	Phone           string     `json:"phone"`
	Role            model.Role `json:"role"`
	Address         string     `json:"address"`
	Specialization  string     `json:"specialization"`
	Clinic          string     `json:"clinic"`
	ExperienceYears *int       `json:"experienceYears"`
}

type signupResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type userSummary struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	Role  model.Role `json:"role"`
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	u, err := h.svc.Signup(c.Request().Context(), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		Role:            req.Role,
		Address:         req.Address,
		Specialization:  req.Specialization,
		Clinic:          req.Clinic,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, signupResponse{
		Message: "User created successfully",
		User:    userSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	})
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tok, role, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: tok, Role: role})
}

// Logout is stateless; the client drops its token.
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, message{Message: "Logged out successfully"})
}
