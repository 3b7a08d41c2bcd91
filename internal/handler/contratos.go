package handler

import (
	"fmt"
	"net/http"

	"loteparatodos/internal/apierror"
	"loteparatodos/internal/dto"
	"loteparatodos/internal/middleware"
	"loteparatodos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContratosHandler struct {
	svc       service.ContratoService
	exportSvc service.ExportService
}

func NewContratosHandler(svc service.ContratoService, exportSvc service.ExportService) *ContratosHandler {
	return &ContratosHandler{svc: svc, exportSvc: exportSvc}
}

// Crear godoc
// @Summary      Crear contrato de venta
// @Description  Vende un lote a un cliente: valida disponibilidad, términos de financiación, y marca el lote como vendido en una transacción.
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearContratoRequest true "Términos del contrato"
// @Success      201  {object} dto.ContratoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/contratos [post]
func (h *ContratosHandler) Crear(c *gin.Context) {
	var req dto.CrearContratoRequest
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

func (h *ContratosHandler) Obtener(c *gin.Context) {
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

// Listar godoc
// @Summary      Listar contratos
// @Description  Lista paginada, filtrable por estado, cliente y emprendimiento.
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Param        estado            query string false "activo | completado | refinanciado | rescindido | cancelado | all"
// @Param        cliente_id        query string false "UUID del cliente"
// @Param        emprendimiento_id query string false "UUID del emprendimiento"
// @Param        page              query int    false "Página (default 1)"
// @Param        limit             query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.ContratoListResponse
// @Router       /v1/contratos [get]
func (h *ContratosHandler) Listar(c *gin.Context) {
	var filter dto.ContratoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar contratos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refinanciar godoc
// @Summary      Refinanciar contrato
// @Description  Reemplaza los términos de financiación. El estado previo queda archivado en el historial del contrato.
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del contrato"
// @Param        body body dto.RefinanciarContratoRequest true "Nuevos términos"
// @Success      200  {object} dto.ContratoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/contratos/{id}/refinanciar [post]
func (h *ContratosHandler) Refinanciar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RefinanciarContratoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Refinanciar(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContratosHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoContratoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarEstado(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PlanCuotas godoc
// @Summary      Plan de cuotas del contrato
// @Description  Deriva las cuotas mensuales agrupadas en ciclos de 6, con estado por cuota y por ciclo a la fecha de consulta.
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del contrato"
// @Success      200 {object} dto.PlanCuotasResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/contratos/{id}/plan-cuotas [get]
func (h *ContratosHandler) PlanCuotas(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.PlanCuotas(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstadoCuenta godoc
// @Summary      Estado de cuenta del contrato
// @Description  Libro mayor cronológico del contrato: cuotas, servicios, préstamos y pagos con saldo acumulado.
// @Tags         contratos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del contrato"
// @Success      200 {object} dto.EstadoCuentaResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/contratos/{id}/estado-cuenta [get]
func (h *ContratosHandler) EstadoCuenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.EstadoCuenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContratosHandler) Historial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportarEstadoCuentaCSV streams the account statement as a CSV download.
func (h *ContratosHandler) ExportarEstadoCuentaCSV(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	data, err := h.exportSvc.EstadoCuentaCSV(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estado_cuenta_%s.csv"`, id))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportarContratosCSV streams the filtered contract list as a CSV download.
func (h *ContratosHandler) ExportarContratosCSV(c *gin.Context) {
	var filter dto.ContratoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	data, err := h.exportSvc.ContratosCSV(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="contratos.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportarEstadoCuentaXLSX streams the account statement as an Excel download.
func (h *ContratosHandler) ExportarEstadoCuentaXLSX(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	data, err := h.exportSvc.EstadoCuentaXLSX(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estado_cuenta_%s.xlsx"`, id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
