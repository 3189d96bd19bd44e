// Package v0 provides the REST API handlers for the reporting service.
package v0

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/healthsync/healthsync/internal/api/common"
	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/service"
	"github.com/healthsync/healthsync/internal/versions"
)

// Routes defines the routes for the reporting API with dependency injection
type Routes struct {
	service service.ReportingService
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc service.ReportingService) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates a new router for the reporting API
func Router(svc service.ReportingService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Get("/users", routes.listUsers)
	r.Get("/users/{username}", routes.getUser)
	r.Get("/users/{username}/status", routes.getSyncStatus)
	r.Get("/users/{username}/metrics/{metric}", routes.listDailyRecords)
	r.Get("/users/{username}/activities", routes.listActivities)
	r.Get("/users/{username}/samples/{metric}", routes.listSamples)

	return r
}

// listUsers handles GET /api/v0/users
func (rr *Routes) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := rr.service.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		common.WriteErrorResponse(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	common.WriteJSONResponse(w, users, http.StatusOK)
}

// getUser handles GET /api/v0/users/{username}
func (rr *Routes) getUser(w http.ResponseWriter, r *http.Request) {
	username, err := common.GetAndValidateURLParam(r, "username")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := rr.service.GetUser(r.Context(), username)
	if err != nil {
		rr.writeServiceError(w, err, "Failed to get user")
		return
	}
	common.WriteJSONResponse(w, user, http.StatusOK)
}

// getSyncStatus handles GET /api/v0/users/{username}/status
func (rr *Routes) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	username, err := common.GetAndValidateURLParam(r, "username")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var opts []service.Option[service.SyncStatusOptions]
	start, end, ok, err := parseRange(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok {
		opts = append(opts, service.WithStatusRange(start, end))
	}
	if r.URL.Query().Get("failures") == "true" {
		opts = append(opts, service.WithFailures())
	}

	status, err := rr.service.GetSyncStatus(r.Context(), username, opts...)
	if err != nil {
		rr.writeServiceError(w, err, "Failed to get sync status")
		return
	}
	common.WriteJSONResponse(w, status, http.StatusOK)
}

// listDailyRecords handles GET /api/v0/users/{username}/metrics/{metric}
func (rr *Routes) listDailyRecords(w http.ResponseWriter, r *http.Request) {
	username, metric, err := userAndMetricParams(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := []service.Option[service.ListDailyRecordsOptions]{
		service.WithDailyMetric(metric),
	}
	start, end, ok, err := parseRange(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok {
		opts = append(opts, service.WithDailyRange(start, end))
	}

	records, err := rr.service.ListDailyRecords(r.Context(), username, opts...)
	if err != nil {
		rr.writeServiceError(w, err, "Failed to list daily records")
		return
	}
	common.WriteJSONResponse(w, records, http.StatusOK)
}

// listActivities handles GET /api/v0/users/{username}/activities
func (rr *Routes) listActivities(w http.ResponseWriter, r *http.Request) {
	username, err := common.GetAndValidateURLParam(r, "username")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var opts []service.Option[service.ListActivitiesOptions]
	start, end, ok, err := parseRange(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok {
		opts = append(opts, service.WithActivityRange(start, end))
	}

	activities, err := rr.service.ListActivities(r.Context(), username, opts...)
	if err != nil {
		rr.writeServiceError(w, err, "Failed to list activities")
		return
	}
	common.WriteJSONResponse(w, activities, http.StatusOK)
}

// listSamples handles GET /api/v0/users/{username}/samples/{metric}
func (rr *Routes) listSamples(w http.ResponseWriter, r *http.Request) {
	username, metric, err := userAndMetricParams(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := []service.Option[service.ListSamplesOptions]{
		service.WithSampleMetric(metric),
	}
	start, end, ok, err := parseRange(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok {
		opts = append(opts, service.WithSampleRange(start, end))
	}

	samples, err := rr.service.ListSamples(r.Context(), username, opts...)
	if err != nil {
		rr.writeServiceError(w, err, "Failed to list samples")
		return
	}
	common.WriteJSONResponse(w, samples, http.StatusOK)
}

// writeServiceError maps service errors onto HTTP status codes.
func (*Routes) writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		common.WriteErrorResponse(w, "User not found", http.StatusNotFound)
	case errors.Is(err, service.ErrMetricRequired):
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error(message, "error", err)
		common.WriteErrorResponse(w, message, http.StatusInternalServerError)
	}
}

func userAndMetricParams(r *http.Request) (string, metrics.Type, error) {
	username, err := common.GetAndValidateURLParam(r, "username")
	if err != nil {
		return "", "", err
	}
	raw, err := common.GetAndValidateURLParam(r, "metric")
	if err != nil {
		return "", "", err
	}
	metric, err := metrics.Parse(raw)
	if err != nil {
		return "", "", err
	}
	return username, metric, nil
}

// parseRange reads the optional start and end query parameters. Both must be
// present together.
func parseRange(r *http.Request) (metrics.Date, metrics.Date, bool, error) {
	q := r.URL.Query()
	rawStart, rawEnd := q.Get("start"), q.Get("end")
	if rawStart == "" && rawEnd == "" {
		return metrics.Date{}, metrics.Date{}, false, nil
	}
	if rawStart == "" || rawEnd == "" {
		return metrics.Date{}, metrics.Date{}, false,
			errors.New("start and end must be provided together")
	}
	start, err := metrics.ParseDate(rawStart)
	if err != nil {
		return metrics.Date{}, metrics.Date{}, false, err
	}
	end, err := metrics.ParseDate(rawEnd)
	if err != nil {
		return metrics.Date{}, metrics.Date{}, false, err
	}
	return start, end, true, nil
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc service.ReportingService) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessHandler handles readiness check requests
func readinessHandler(svc service.ReportingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			common.WriteErrorResponse(w, "Service not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	response := map[string]string{
		"version":    info.Version,
		"commit":     info.Commit,
		"build_date": info.BuildDate,
		"go_version": info.GoVersion,
		"platform":   info.Platform,
	}

	common.WriteJSONResponse(w, response, http.StatusOK)
}
