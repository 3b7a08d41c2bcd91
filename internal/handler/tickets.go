package handler

import (
	"net/http"

	"loteparatodos/internal/apierror"
	"loteparatodos/internal/dto"
	"loteparatodos/internal/middleware"
	"loteparatodos/internal/repository"
	"loteparatodos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TicketsHandler struct{ svc service.TicketService }

func NewTicketsHandler(svc service.TicketService) *TicketsHandler {
	return &TicketsHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear ticket de stock
// @Description  Crea un ticket de entrega o recepción de materiales con sus líneas en estado pendiente.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearTicketRequest true "Ticket con líneas"
// @Success      201  {object} dto.TicketResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/tickets [post]
func (h *TicketsHandler) Crear(c *gin.Context) {
	var req dto.CrearTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TicketsHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TicketsHandler) Listar(c *gin.Context) {
	var filter repository.TicketFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar tickets"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmarEntrega godoc
// @Summary      Confirmar entrega parcial o total de una línea
// @Description  Registra la cantidad entregada sobre una línea. Si queda remanente, la línea se divide: la original pasa a parcial y se crea una línea hermana con el resto pendiente. El stock se ajusta atómicamente.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "UUID del ticket"
// @Param        linea_id path string true "UUID de la línea"
// @Param        body     body dto.ConfirmarEntregaRequest true "Cantidad entregada"
// @Success      200  {object} dto.TicketResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/tickets/{id}/lineas/{linea_id}/entrega [post]
func (h *TicketsHandler) ConfirmarEntrega(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de ticket invalido"))
		return
	}
	lineaID, err := uuid.Parse(c.Param("linea_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linea invalido"))
		return
	}
	var req dto.ConfirmarEntregaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmarEntrega(c.Request.Context(), ticketID, lineaID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
