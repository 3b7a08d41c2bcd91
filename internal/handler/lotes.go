package handler

import (
	"net/http"

	"loteparatodos/internal/apierror"
	"loteparatodos/internal/dto"
	"loteparatodos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LotesHandler struct{ svc service.LoteService }

func NewLotesHandler(svc service.LoteService) *LotesHandler { return &LotesHandler{svc: svc} }

func (h *LotesHandler) CrearEmprendimiento(c *gin.Context) {
	var req dto.CrearEmprendimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearEmprendimiento(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LotesHandler) ListarEmprendimientos(c *gin.Context) {
	resp, err := h.svc.ListEmprendimientos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar emprendimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LotesHandler) CrearLote(c *gin.Context) {
	var req dto.CrearLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearLote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LotesHandler) ObtenerLote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerLote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LotesHandler) ListarLotes(c *gin.Context) {
	emprendimientoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de emprendimiento invalido"))
		return
	}
	resp, err := h.svc.ListLotes(c.Request.Context(), emprendimientoID, c.Query("estado"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar lotes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LotesHandler) ActualizarLote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarLote(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Disponibilidad godoc
// @Summary      Disponibilidad pública de lotes
// @Description  Conteo de lotes por estado para un emprendimiento, con la lista de los disponibles. Respuesta cacheada 60s. No requiere autenticación.
// @Tags         lotes
// @Produce      json
// @Param        emprendimiento_id path string true "UUID del emprendimiento"
// @Success      200 {object} dto.DisponibilidadResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/disponibilidad/{emprendimiento_id} [get]
func (h *LotesHandler) Disponibilidad(c *gin.Context) {
	emprendimientoID, err := uuid.Parse(c.Param("emprendimiento_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de emprendimiento invalido"))
		return
	}
	resp, err := h.svc.Disponibilidad(c.Request.Context(), emprendimientoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
