// Package queuetest is an in-process stand-in for the remote queue service,
// implementing its HTTP contract for gateway and end-to-end tests. The real
// service stays out of scope; this fake only needs to be faithful at the
// boundary: envelope responses, status codes, bearer enforcement and the
// priority/date/time/arrival serving order.
package queuetest

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"lifecert-queue/internal/api"
	"lifecert-queue/internal/projection"
)

// Server is the fake queue service. Obtain its http.Handler and mount it on
// an httptest.Server.
type Server struct {
	mgr        *manager
	echo       *echo.Echo
	adminToken string

	mu           sync.Mutex
	failRemain   int
	failStatus   int
	requestCount int
}

// New creates a fake service. adminToken guards dequeue and clear; an empty
// token disables privileged routes entirely.
func New(adminToken string) *Server {
	s := &Server{
		mgr:        newManager(),
		echo:       echo.New(),
		adminToken: adminToken,
	}
	s.echo.HideBanner = true
	s.routes()
	return s
}

// Handler exposes the service for mounting on a test HTTP server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// FailNext makes the next n requests answer with the given status before any
// route logic runs, for exercising retry behaviour.
func (s *Server) FailNext(n, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRemain = n
	s.failStatus = status
}

// Requests reports how many requests reached the service.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCount
}

func (s *Server) routes() {
	s.echo.Use(s.failureInjector)

	s.echo.POST("/queue/enqueue", s.enqueue)
	s.echo.GET("/queue", s.list)
	s.echo.GET("/queue/entry/:certNo", s.getEntry)
	s.echo.POST("/queue/dequeue", s.dequeue, s.requireAdmin)
	s.echo.DELETE("/queue/entry/:certNo", s.removeEntry)
	s.echo.GET("/queue/stats", s.stats)
	s.echo.POST("/queue/clear", s.clear, s.requireAdmin)
	s.echo.GET("/health", s.health)
}

func (s *Server) failureInjector(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requestCount++
		inject := s.failRemain > 0
		status := s.failStatus
		if inject {
			s.failRemain--
		}
		s.mu.Unlock()
		if inject {
			return fail(c, status, "injected failure")
		}
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if s.adminToken == "" || header == "" || token != s.adminToken {
			return fail(c, http.StatusUnauthorized, "Invalid or missing admin token")
		}
		return next(c)
	}
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{
		"success": false,
		"message": message,
		"error":   http.StatusText(status),
	})
}

func (s *Server) enqueue(c echo.Context) error {
	var input api.EnqueueInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := input.Validate(); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	entry, position, added := s.mgr.enqueue(input)
	if !added {
		return fail(c, http.StatusConflict, "Person with life_certificate_no "+input.LifeCertificateNo+" already in queue")
	}
	return ok(c, "Person added to queue successfully", api.EnqueueResult{
		Position:             position,
		Priority:             entry.Priority,
		EstimatedWaitMinutes: projection.EstimatedWaitMinutes(position - 1),
		Entry:                entry,
	})
}

func (s *Server) list(c echo.Context) error {
	queue, updated := s.mgr.snapshot()
	snap := api.QueueSnapshot{
		QueueLength: len(queue),
		LastUpdated: updated.UTC().Format(time.RFC3339),
		Queue:       queue,
	}
	if len(queue) > 0 {
		snap.NowServing = &queue[0]
	}
	return ok(c, "Queue retrieved", snap)
}

func (s *Server) getEntry(c echo.Context) error {
	certNo := c.Param("certNo")
	entry, found := s.mgr.get(certNo)
	if !found {
		return fail(c, http.StatusNotFound, "Person with certificate "+certNo+" not found in queue")
	}
	return ok(c, "Entry found", entry)
}

func (s *Server) dequeue(c echo.Context) error {
	served, remaining, found := s.mgr.dequeue()
	if !found {
		return fail(c, http.StatusBadRequest, "Queue is empty")
	}
	return ok(c, "Person dequeued successfully", api.DequeueResult{
		Served:    served,
		Remaining: remaining,
	})
}

func (s *Server) removeEntry(c echo.Context) error {
	certNo := c.Param("certNo")
	removed, found := s.mgr.remove(certNo)
	if !found {
		return fail(c, http.StatusNotFound, "Person with certificate "+certNo+" not found in queue")
	}
	return ok(c, "Person removed from queue successfully", api.RemoveResult{Removed: removed})
}

func (s *Server) stats(c echo.Context) error {
	queue, _ := s.mgr.snapshot()
	return ok(c, "Statistics retrieved", projection.ComputeStatistics(queue))
}

func (s *Server) clear(c echo.Context) error {
	cleared := s.mgr.clear()
	return ok(c, "Queue cleared", api.ClearResult{ClearedCount: cleared})
}

func (s *Server) health(c echo.Context) error {
	queue, _ := s.mgr.snapshot()
	var status api.HealthStatus
	status.Status = "healthy"
	status.Timestamp = time.Now().UTC().Format(time.RFC3339)
	status.QueueStatus.TotalEntries = len(queue)
	for i := range queue {
		if queue[i].Priority == 0 {
			status.QueueStatus.Priority0Entries++
		} else {
			status.QueueStatus.Priority1Entries++
		}
	}
	return c.JSON(http.StatusOK, status)
}
