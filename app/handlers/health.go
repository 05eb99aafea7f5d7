package main

import (
	"context"
	"net/http"
	"time"

	"github.com/narang24/Journal-Website-Backend/app/metrics"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                 `json:"status"` // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
	Uptime    string                 `json:"uptime,omitempty"`
}

// CheckResult represents the result of a dependency health check
type CheckResult struct {
	Status       string `json:"status"` // "up" or "down"
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

var startTime = time.Now()

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckResult)
	overallStatus := "healthy"

	dbCheck := app.checkDatabase(ctx)
	checks["database"] = dbCheck
	metrics.SetDependencyHealth("database", dbCheck.Status == "up")
	if dbCheck.Status != "up" {
		overallStatus = "unhealthy"
	}

	redisCheck := app.checkRedis(ctx)
	checks["redis"] = redisCheck
	metrics.SetDependencyHealth("redis", redisCheck.Status == "up")
	if redisCheck.Status != "up" {
		overallStatus = "unhealthy"
	}

	// RabbitMQ only participates when the amqp mail provider is active.
	if app.rabbitConn != nil {
		rabbitCheck := app.checkRabbitMQ()
		checks["rabbitmq"] = rabbitCheck
		metrics.SetDependencyHealth("rabbitmq", rabbitCheck.Status == "up")
		if rabbitCheck.Status != "up" {
			overallStatus = "unhealthy"
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Uptime:    time.Since(startTime).String(),
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}

func (app *application) checkDatabase(ctx context.Context) CheckResult {
	start := time.Now()

	if app.db == nil {
		return CheckResult{
			Status: "down",
			Error:  "database connection not initialized",
		}
	}

	if err := app.db.PingContext(ctx); err != nil {
		return CheckResult{
			Status:       "down",
			ResponseTime: time.Since(start).String(),
			Error:        err.Error(),
		}
	}

	var result int
	if err := app.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return CheckResult{
			Status:       "down",
			ResponseTime: time.Since(start).String(),
			Error:        err.Error(),
		}
	}

	return CheckResult{
		Status:       "up",
		ResponseTime: time.Since(start).String(),
	}
}

func (app *application) checkRedis(ctx context.Context) CheckResult {
	start := time.Now()

	if app.redisClient == nil {
		return CheckResult{
			Status: "down",
			Error:  "redis client not initialized",
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := app.redisClient.Ping(pingCtx).Err(); err != nil {
		return CheckResult{
			Status:       "down",
			ResponseTime: time.Since(start).String(),
			Error:        err.Error(),
		}
	}

	return CheckResult{
		Status:       "up",
		ResponseTime: time.Since(start).String(),
	}
}

func (app *application) checkRabbitMQ() CheckResult {
	start := time.Now()

	if app.rabbitConn == nil || app.rabbitCh == nil {
		return CheckResult{
			Status: "down",
			Error:  "rabbitmq connection not initialized",
		}
	}

	if app.rabbitConn.IsClosed() {
		return CheckResult{
			Status:       "down",
			ResponseTime: time.Since(start).String(),
			Error:        "rabbitmq connection is closed",
		}
	}

	if app.rabbitCh.IsClosed() {
		return CheckResult{
			Status:       "down",
			ResponseTime: time.Since(start).String(),
			Error:        "rabbitmq channel is closed",
		}
	}

	return CheckResult{
		Status:       "up",
		ResponseTime: time.Since(start).String(),
	}
}

// corsDiagnosticHandler echoes the request origin and what CORS decided, for
// debugging cross-origin setups from the frontend.
func (app *application) corsDiagnosticHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"origin":       r.Header.Get("Origin"),
		"allowedValue": w.Header().Get("Access-Control-Allow-Origin"),
		"method":       r.Method,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
