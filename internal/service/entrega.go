package service

import (
	"loteparatodos/internal/model"

	"github.com/shopspring/decimal"
)

// AplicarEntrega aplica una entrega sobre una línea de ticket.
//
// Devuelve la línea actualizada y, si la entrega fue parcial, una línea
// hermana nueva por el remanente (pendiente, cantidad entregada en cero,
// mismos material y metadatos). Cómputo puro: la persistencia de ambas filas
// es responsabilidad del caller (TicketService, dentro de una transacción).
//
// Conservación: entregada + remanente == original − entregado previo.
func AplicarEntrega(linea model.LineaTicket, cantidad decimal.Decimal) (model.LineaTicket, *model.LineaTicket, error) {
	pendiente := linea.Pendiente()
	if !cantidad.IsPositive() || cantidad.GreaterThan(pendiente) {
		return linea, nil, &InvalidDeliveryQuantityError{Cantidad: cantidad, Pendiente: pendiente}
	}

	linea.CantidadEntregada = linea.CantidadEntregada.Add(cantidad)
	if linea.CantidadEntregada.Equal(linea.CantidadOriginal) {
		linea.Estado = model.TicketEntregado
	} else {
		linea.Estado = model.TicketParcial
	}

	remanente := pendiente.Sub(cantidad)
	if !remanente.IsPositive() {
		return linea, nil, nil
	}

	nueva := model.LineaTicket{
		TicketID:          linea.TicketID,
		MaterialID:        linea.MaterialID,
		CantidadOriginal:  remanente,
		CantidadEntregada: decimal.Zero,
		Estado:            model.TicketPendiente,
		Observaciones:     linea.Observaciones,
	}
	return linea, &nueva, nil
}
