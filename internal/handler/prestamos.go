package handler

import (
	"net/http"

	"loteparatodos/internal/apierror"
	"loteparatodos/internal/dto"
	"loteparatodos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PrestamosHandler struct{ svc service.PrestamoService }

func NewPrestamosHandler(svc service.PrestamoService) *PrestamosHandler {
	return &PrestamosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear préstamo de materiales
// @Description  Registra un préstamo asociado a un contrato, con su desembolso opcional y cronograma de devolución.
// @Tags         prestamos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPrestamoRequest true "Préstamo con cuotas"
// @Success      201  {object} dto.PrestamoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/prestamos [post]
func (h *PrestamosHandler) Crear(c *gin.Context) {
	var req dto.CrearPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PrestamosHandler) ListarPorContrato(c *gin.Context) {
	contratoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de contrato invalido"))
		return
	}
	resp, err := h.svc.ListByContrato(c.Request.Context(), contratoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
