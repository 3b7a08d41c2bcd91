package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NotificacionPayload is sent by the worker pool to the Notificador sidecar,
// which fans the receipt out to WhatsApp / SMS providers.
type NotificacionPayload struct {
	ReciboID   string  `json:"recibo_id"`
	ContratoID string  `json:"contrato_id"`
	Cliente    string  `json:"cliente"`
	Telefono   *string `json:"telefono,omitempty"`
	Concepto   string  `json:"concepto"`
	Monto      float64 `json:"monto"`
}

// NotificacionResponse is returned by the sidecar.
type NotificacionResponse struct {
	Resultado string `json:"resultado"` // "A" (aceptado) | "R" (rechazado)
	MensajeID string `json:"mensaje_id"`
	Detalle   string `json:"detalle,omitempty"`
}

// NotificadorClient delegates customer notification to the sidecar service.
// The decoupling isolates provider outages from the core backend.
type NotificadorClient struct {
	sidecarURL string
	httpClient *http.Client
}

func NewNotificadorClient(sidecarURL string) *NotificadorClient {
	return &NotificadorClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Notificar sends a POST to the sidecar and returns its acknowledgement.
func (c *NotificadorClient) Notificar(ctx context.Context, payload NotificacionPayload) (*NotificacionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notificador: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/notificar", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("notificador: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notificador: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notificador: sidecar returned %d", resp.StatusCode)
	}

	var result NotificacionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("notificador: decode response: %w", err)
	}
	return &result, nil
}
