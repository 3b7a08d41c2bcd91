package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidContractError indica que un contrato no tiene los datos mínimos para
// derivar su plan de cuotas (p. ej. cuotas pactadas sin fecha de inicio).
type InvalidContractError struct {
	Motivo string
}

func (e *InvalidContractError) Error() string {
	return "contrato inválido: " + e.Motivo
}

// InvalidDeliveryQuantityError indica una cantidad de entrega fuera de rango
// para una línea de ticket: cero, negativa, o mayor al pendiente.
type InvalidDeliveryQuantityError struct {
	Cantidad  decimal.Decimal
	Pendiente decimal.Decimal
}

func (e *InvalidDeliveryQuantityError) Error() string {
	return fmt.Sprintf("cantidad de entrega inválida: %s (pendiente: %s)",
		e.Cantidad.String(), e.Pendiente.String())
}
