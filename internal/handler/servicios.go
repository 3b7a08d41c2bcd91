package handler

import (
	"net/http"

	"loteparatodos/internal/apierror"
	"loteparatodos/internal/dto"
	"loteparatodos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ServiciosHandler struct{ svc service.ServicioService }

func NewServiciosHandler(svc service.ServicioService) *ServiciosHandler {
	return &ServiciosHandler{svc: svc}
}

// ── Catálogo ─────────────────────────────────────────────────────────────────

func (h *ServiciosHandler) CrearCatalogo(c *gin.Context) {
	var req dto.CrearServicioCatalogoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCatalogo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServiciosHandler) ListarCatalogo(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.ListCatalogo(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar servicios"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) ActualizarCatalogo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarServicioCatalogoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCatalogo(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) DesactivarCatalogo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DesactivarCatalogo(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Servicios contratados ────────────────────────────────────────────────────

// Contratar godoc
// @Summary      Contratar servicio para un contrato
// @Description  Asocia un servicio del catálogo a un contrato, con precio acordado opcional (si se omite rige el precio de lista).
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del contrato"
// @Param        body body dto.ContratarServicioRequest true "Servicio y condiciones"
// @Success      201  {object} dto.ServicioContratadoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/contratos/{id}/servicios [post]
func (h *ServiciosHandler) Contratar(c *gin.Context) {
	contratoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de contrato invalido"))
		return
	}
	var req dto.ContratarServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Contratar(c.Request.Context(), contratoID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServiciosHandler) ListarPorContrato(c *gin.Context) {
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
