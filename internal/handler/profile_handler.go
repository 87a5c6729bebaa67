package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinic-api/internal/model"
)

// profileRequest lists every attribute any role may edit. Anything else in
// the body (role, email, password, ...) is dropped by the decoder.
type profileRequest struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Specialization  *string `json:"specialization"`
	Clinic          *string `json:"clinic"`
	ExperienceYears *int    `json:"experienceYears"`
}

type fieldRequest struct {
	Label *string `json:"label"`
	Value *string `json:"value"`
}

type fieldsResponse struct {
	Message string               `json:"message"`
	Fields  []model.ProfileField `json:"fields"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *Handler) GetProfile(c echo.Context) error {
	u, err := h.svc.Profile(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	u, err := h.svc.UpdateBasicInfo(c.Request().Context(), caller(c), model.BasicInfo{
		Name:            req.Name,
		Phone:           req.Phone,
		Address:         req.Address,
		Specialization:  req.Specialization,
		Clinic:          req.Clinic,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) AddField(c echo.Context) error {
	var req fieldRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	fields, err := h.svc.AddField(c.Request().Context(), caller(c), deref(req.Label), deref(req.Value))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fields)
}

func (h *Handler) UpdateField(c echo.Context) error {
	var req fieldRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	fields, err := h.svc.UpdateField(c.Request().Context(), caller(c), c.Param("fieldId"), req.Label, req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *Handler) DeleteField(c echo.Context) error {
	fields, err := h.svc.DeleteField(c.Request().Context(), caller(c), c.Param("fieldId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fieldsResponse{Message: "Profile field deleted", Fields: fields})
}
