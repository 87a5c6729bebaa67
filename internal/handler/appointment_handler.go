package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinic-api/internal/model"
	"clinic-api/internal/service"
)

type bookRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}

type respondRequest struct {
	Decision service.Decision `json:"decision"`
}

type appointmentResponse struct {
	Message     string             `json:"message"`
	Appointment *model.Appointment `json:"appointment"`
}

func (h *Handler) ListDoctors(c echo.Context) error {
	docs, err := h.svc.ListDoctors(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) Book(c echo.Context) error {
	var req bookRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := h.svc.Book(c.Request().Context(), caller(c), service.BookInput{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Time:     req.Time,
		Reason:   req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, appointmentResponse{Message: "Appointment booked", Appointment: a})
}

func (h *Handler) PendingAppointments(c echo.Context) error {
	reqs, err := h.svc.PendingRequests(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reqs)
}

func (h *Handler) ConfirmedPatients(c echo.Context) error {
	patients, err := h.svc.ConfirmedPatients(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) Respond(c echo.Context) error {
	var req respondRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := h.svc.Respond(c.Request().Context(), caller(c), c.Param("appointmentId"), req.Decision)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appointmentResponse{
		Message:     "Appointment " + string(a.Status),
		Appointment: a,
	})
}
