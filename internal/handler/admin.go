package handler

import (
	"errors"
	"net/http"

	"loteparatodos/internal/apierror"
	"loteparatodos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// AdminHandler exposes operational endpoints for administrators: DLQ
// inspection and recovery of jobs that exhausted their retries.
type AdminHandler struct{ rdb *redis.Client }

func NewAdminHandler(rdb *redis.Client) *AdminHandler { return &AdminHandler{rdb: rdb} }

var adminQueues = map[string]string{
	"recibo": worker.QueueRecibo,
	"email":  worker.QueueEmail,
}

func (h *AdminHandler) DLQStatus(c *gin.Context) {
	out := gin.H{}
	for name, queue := range adminQueues {
		n, err := worker.DLQLength(c.Request.Context(), h.rdb, queue)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar DLQ"))
			return
		}
		out[name] = n
	}
	c.JSON(http.StatusOK, out)
}

// DLQRequeue pops the oldest dead-lettered job of the given queue and
// puts it back on its original queue for reprocessing.
func (h *AdminHandler) DLQRequeue(c *gin.Context) {
	queue, ok := adminQueues[c.Param("queue")]
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.New("Cola desconocida"))
		return
	}
	entry, err := worker.RequeueFromDLQ(c.Request.Context(), h.rdb, queue)
	if err != nil {
		if errors.Is(err, worker.ErrDLQEmpty) {
			c.JSON(http.StatusNotFound, apierror.New("La DLQ esta vacia"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"requeued": true,
		"job_type": entry.JobType,
		"reason":   entry.Reason,
		"attempts": entry.Attempts,
	})
}
