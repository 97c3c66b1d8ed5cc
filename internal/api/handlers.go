package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medguard-server/internal/domain"
)

// writeError maps service errors to the standardized envelope. Unknown
// identifiers are 404, store failures 503, everything else 500; the
// store failure is never masked behind a default assessment.
func (s *Server) writeError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": domain.NewAPIError(domain.CodeNotFound, "unknown drug identifier", err.Error(), requestID),
		})
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.log.WithError(err).Error("Knowledge store failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": domain.NewAPIError(domain.CodeStoreUnavailable, "knowledge store unavailable", "", requestID),
		})
	default:
		s.log.WithError(err).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": domain.NewAPIError(domain.CodeInternal, "internal error", "", requestID),
		})
	}
}

func (s *Server) writeInvalidInput(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": domain.NewAPIError(domain.CodeInvalidInput, "invalid request", details, c.GetString("request_id")),
	})
}

// handleHealth reports store connectivity and per-table row counts.
func (s *Server) handleHealth(c *gin.Context) {
	ctx := c.Request.Context()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "degraded",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	stats, err := s.store.TableStats(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"tables":    stats,
	})
}

// handleListDrugs returns the drug catalog with brand names.
func (s *Server) handleListDrugs(c *gin.Context) {
	drugs, err := s.store.ListDrugs(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drugs":      drugs,
		"count":      len(drugs),
		"disclaimer": domain.Disclaimer,
	})
}

// handleGetDrug returns the explainability profile of one drug.
func (s *Server) handleGetDrug(c *gin.Context) {
	profile, err := s.profiles.Explain(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// handleAssessRisk runs the full evaluator set over a request.
func (s *Server) handleAssessRisk(c *gin.Context) {
	var req domain.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeInvalidInput(c, err.Error())
		return
	}
	for _, count := range req.MissedDoses {
		if count < 0 {
			s.writeInvalidInput(c, "missed_doses counts must not be negative")
			return
		}
	}

	assessment, err := s.assessor.Assess(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

type interactionRequest struct {
	DrugIDs []string `json:"drug_ids"`
}

// handleCheckInteractions runs the pairwise interaction check and reports
// each drug's food and alcohol rules alongside it.
func (s *Server) handleCheckInteractions(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeInvalidInput(c, err.Error())
		return
	}
	if len(req.DrugIDs) < 2 {
		s.writeInvalidInput(c, "drug_ids must contain at least two identifiers")
		return
	}

	// unknown identifiers are an error, not a silently green answer
	foodRules := make(map[string][]domain.FoodAlcoholRule)
	seen := make(map[string]struct{}, len(req.DrugIDs))
	for _, id := range req.DrugIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, err := s.store.GetDrug(c.Request.Context(), id); err != nil {
			s.writeError(c, err)
			return
		}
		rules, err := s.store.ListFoodAlcoholRules(c.Request.Context(), id, "")
		if err != nil {
			s.writeError(c, err)
			return
		}
		if len(rules) > 0 {
			foodRules[id] = rules
		}
	}

	flags, err := s.checker.Check(c.Request.Context(), req.DrugIDs)
	if err != nil {
		s.writeError(c, err)
		return
	}

	level := domain.GREEN
	for _, f := range flags {
		level = domain.MaxLevel(level, f.Level)
	}

	c.JSON(http.StatusOK, gin.H{
		"risk_level":   level,
		"flags":        flags,
		"food_alcohol": foodRules,
		"disclaimer":   domain.Disclaimer,
	})
}

type amrRequest struct {
	DrugID      string `json:"drug_id"`
	MissedDoses int    `json:"missed_doses"`
}

// handleAMRCheck runs the standalone stewardship view for one drug.
func (s *Server) handleAMRCheck(c *gin.Context) {
	var req amrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeInvalidInput(c, err.Error())
		return
	}
	if req.DrugID == "" {
		s.writeInvalidInput(c, "drug_id is required")
		return
	}
	if req.MissedDoses < 0 {
		s.writeInvalidInput(c, "missed_doses must not be negative")
		return
	}

	status, err := s.monitor.Check(c.Request.Context(), req.DrugID, req.MissedDoses)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type explainRequest struct {
	DrugID string `json:"drug_id"`
}

// handleExplain returns the explainability profile of one drug.
func (s *Server) handleExplain(c *gin.Context) {
	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeInvalidInput(c, err.Error())
		return
	}
	if req.DrugID == "" {
		s.writeInvalidInput(c, "drug_id is required")
		return
	}

	profile, err := s.profiles.Explain(c.Request.Context(), req.DrugID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type confirmMedicineRequest struct {
	DrugID    string `json:"drug_id"`
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
}

// handleConfirmMedicine appends a confirmed medicine-start event.
func (s *Server) handleConfirmMedicine(c *gin.Context) {
	var req confirmMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeInvalidInput(c, err.Error())
		return
	}
	if req.DrugID == "" {
		s.writeInvalidInput(c, "drug_id is required")
		return
	}

	var startDate time.Time
	if req.StartDate != "" {
		var err error
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			s.writeInvalidInput(c, "start_date must be formatted YYYY-MM-DD")
			return
		}
	}

	entry, err := s.timeline.RecordConfirmedMedicine(c.Request.Context(), req.UserID, req.DrugID, startDate)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":      entry,
		"disclaimer": domain.Disclaimer,
	})
}

// handleTimeline returns a user's medicine timeline.
func (s *Server) handleTimeline(c *gin.Context) {
	items, err := s.timeline.History(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timeline":   items,
		"count":      len(items),
		"disclaimer": domain.Disclaimer,
	})
}

// handleInsights returns behavioral findings from a user's timeline.
func (s *Server) handleInsights(c *gin.Context) {
	insights, err := s.insights.Insights(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"insights":   insights,
		"disclaimer": domain.Disclaimer,
	})
}
