package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pulsekpi/pulse/internal/db"
	"github.com/pulsekpi/pulse/internal/health"
	"github.com/pulsekpi/pulse/internal/httputil"
	"github.com/pulsekpi/pulse/internal/trend"
	"github.com/pulsekpi/pulse/internal/version"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{
		"status":  "ok",
		"version": version.String(),
	})
}

type createCustomerRequest struct {
	Name string `json:"name"`
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		httputil.BadRequest(w, "body must be {\"name\": ...}")
		return
	}
	id, err := s.db.CreateCustomer(req.Name)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to create customer: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type createAccountRequest struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.CustomerID == 0 {
		httputil.BadRequest(w, "body must be {\"customer_id\": ..., \"name\": ...}")
		return
	}
	id, err := s.db.CreateAccount(req.CustomerID, req.Name)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to create account: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// flexString accepts either a JSON string or a JSON number, keeping the
// original text. Spreadsheet exports send "85%" for one KPI and a bare 42
// for the next.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value must be a string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

type uploadKPIRecord struct {
	KPIName     string     `json:"kpi_name"`
	Category    string     `json:"category,omitempty"`
	ImpactLevel string     `json:"impact_level"`
	Value       flexString `json:"value"`
}

type uploadKPIsRequest struct {
	Month   int               `json:"month"`
	Year    int               `json:"year"`
	Records []uploadKPIRecord `json:"records"`
}

func (s *Server) uploadKPIs(w http.ResponseWriter, r *http.Request) {
	accountID, ok := s.accountFromPath(w, r)
	if !ok {
		return
	}

	var req uploadKPIsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Month < 1 || req.Month > 12 {
		httputil.BadRequest(w, "month must be 1-12")
		return
	}
	if req.Year < 2000 || req.Year > 2100 {
		httputil.BadRequest(w, "year out of range")
		return
	}
	if len(req.Records) == 0 {
		httputil.BadRequest(w, "no records in upload")
		return
	}

	records := make([]health.KPIRecord, 0, len(req.Records))
	for i, rec := range req.Records {
		if rec.KPIName == "" {
			httputil.BadRequest(w, fmt.Sprintf("record %d has no kpi_name", i))
			return
		}
		category := rec.Category
		if category == "" {
			// Uploads may omit the category when the KPI is cataloged.
			cat, ok := s.cat.Category(rec.KPIName)
			if !ok {
				httputil.BadRequest(w, fmt.Sprintf("record %d (%s): unknown KPI and no category given", i, rec.KPIName))
				return
			}
			category = cat
		}
		records = append(records, health.KPIRecord{
			KPIName:     rec.KPIName,
			Category:    category,
			ImpactLevel: rec.ImpactLevel,
			RawValue:    string(rec.Value),
		})
	}

	inserted, err := s.db.InsertKPIRecords(accountID, req.Month, req.Year, records)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to store records: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]int{"inserted": inserted})
}

type healthResponse struct {
	AccountID int64 `json:"account_id"`
	Month     int   `json:"month"`
	Year      int   `json:"year"`
	health.OverallHealthScore
	Excluded []health.Exclusion `json:"excluded,omitempty"`
	Alerts   []health.Alert     `json:"alerts,omitempty"`
}

func (s *Server) computeHealth(w http.ResponseWriter, r *http.Request) {
	accountID, ok := s.accountFromPath(w, r)
	if !ok {
		return
	}
	account, err := s.db.GetAccount(accountID)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, fmt.Sprintf("account %d not found", accountID))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load account: %v", err))
		return
	}

	month, year, ok := periodFromQuery(w, r)
	if !ok {
		return
	}

	profileName := r.URL.Query().Get("profile")
	if profileName == "" {
		profileName = s.profile
	}
	profile, ok := s.cat.Profile(profileName)
	if !ok {
		httputil.BadRequest(w, fmt.Sprintf("unknown weight profile %q", profileName))
		return
	}

	records, err := s.db.KPIRecordsForPeriod(accountID, month, year)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load records: %v", err))
		return
	}

	scores, excluded, err := s.scorer.ScoreRecords(account.CustomerID, records, s.db)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to score records: %v", err))
		return
	}
	overall := s.scorer.Aggregate(scores, profile)

	// Fetch the previous snapshot before persisting this one so a
	// recomputation of the same period compares against the prior period,
	// not against itself.
	var prev *health.OverallHealthScore
	if prevPoint, err := s.db.PreviousTrend(accountID, year, month); err == nil {
		if band, err := health.ParseBand(prevPoint.HealthStatus); err == nil {
			prev = &health.OverallHealthScore{
				OverallScore: prevPoint.OverallScore,
				HealthStatus: band,
			}
		}
	}

	categoryJSON, err := json.Marshal(overall.CategoryScores)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to encode category scores: %v", err))
		return
	}
	if err := s.db.UpsertTrend(db.TrendPoint{
		AccountID:      accountID,
		Month:          month,
		Year:           year,
		OverallScore:   overall.OverallScore,
		HealthStatus:   overall.HealthStatus.String(),
		CategoryScores: categoryJSON,
		KPICount:       overall.KPICount,
		ComputedAt:     s.clock.Now(),
	}); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to store snapshot: %v", err))
		return
	}

	httputil.WriteJSONOK(w, healthResponse{
		AccountID:          accountID,
		Month:              month,
		Year:               year,
		OverallHealthScore: overall,
		Excluded:           excluded,
		Alerts:             health.EvaluateAlerts(prev, &overall),
	})
}

type trendsResponse struct {
	AccountID int64           `json:"account_id"`
	Points    []db.TrendPoint `json:"points"`
	Summary   trend.Summary   `json:"summary"`
}

func (s *Server) listTrends(w http.ResponseWriter, r *http.Request) {
	accountID, ok := s.accountFromPath(w, r)
	if !ok {
		return
	}
	points, err := s.db.TrendsForAccount(accountID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load trends: %v", err))
		return
	}
	scores := make([]float64, len(points))
	for i, p := range points {
		scores[i] = p.OverallScore
	}
	httputil.WriteJSONOK(w, trendsResponse{
		AccountID: accountID,
		Points:    points,
		Summary:   trend.Summarize(scores),
	})
}

func (s *Server) listRanges(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(r.URL.Query().Get("customer_id"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "customer_id query parameter required")
		return
	}
	ranges, err := s.db.ListRanges(customerID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list ranges: %v", err))
		return
	}
	httputil.WriteJSONOK(w, ranges)
}

type rangeOverrideRequest struct {
	CustomerID     int64             `json:"customer_id"`
	Unit           string            `json:"unit"`
	HigherIsBetter bool              `json:"higher_is_better"`
	Critical       health.BandRange  `json:"critical"`
	Risk           health.BandRange  `json:"risk"`
	Healthy        health.BandRange  `json:"healthy"`
	Expansion      *health.BandRange `json:"expansion,omitempty"`
}

func (s *Server) putRangeOverride(w http.ResponseWriter, r *http.Request) {
	kpiName := r.PathValue("kpi")

	var req rangeOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.CustomerID == 0 {
		httputil.BadRequest(w, "customer_id required")
		return
	}

	rr := health.ReferenceRange{
		KPIName:        kpiName,
		CustomerID:     &req.CustomerID,
		Unit:           req.Unit,
		HigherIsBetter: req.HigherIsBetter,
		Critical:       req.Critical,
		Risk:           req.Risk,
		Healthy:        req.Healthy,
		Expansion:      req.Expansion,
	}
	if err := s.db.OverrideRange(req.CustomerID, rr); err != nil {
		if db.IsConflict(err) {
			httputil.Conflict(w, "a concurrent edit created this override first")
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to store override: %v", err))
		return
	}
	httputil.WriteJSONOK(w, rr)
}

func (s *Server) deleteRangeOverride(w http.ResponseWriter, r *http.Request) {
	kpiName := r.PathValue("kpi")
	customerID, err := strconv.ParseInt(r.URL.Query().Get("customer_id"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "customer_id query parameter required")
		return
	}
	err = s.db.DeleteOverride(customerID, kpiName)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, fmt.Sprintf("no override for %q", kpiName))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to delete override: %v", err))
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"deleted": kpiName})
}

// accountFromPath parses the {id} path segment, writing a 400 on failure.
func (s *Server) accountFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.BadRequest(w, "invalid account id")
		return 0, false
	}
	return id, true
}

// periodFromQuery parses required month/year query parameters.
func periodFromQuery(w http.ResponseWriter, r *http.Request) (month, year int, ok bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		httputil.BadRequest(w, "month query parameter must be 1-12")
		return 0, 0, false
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		httputil.BadRequest(w, "year query parameter out of range")
		return 0, 0, false
	}
	return month, year, true
}
