package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"multitalent/internal/config"
	"multitalent/internal/database"
	"multitalent/internal/personality"
	"multitalent/internal/postulation"
	"multitalent/internal/realtime"
	"multitalent/internal/scoring"
	"multitalent/internal/storage"
)

const presignExpiry = 20 * time.Minute

// adminSteps maps the admin panel's step numbers onto pipeline states.
var adminSteps = map[int]postulation.Status{
	1: postulation.StatusAccepted,
	2: postulation.StatusPrescreenCall,
	3: postulation.StatusPersonalityTestReady,
	4: postulation.StatusInterviewScheduled,
	5: postulation.StatusSelectionPending,
	6: postulation.StatusHired,
}

type Server struct {
	cfg          *config.Cfg
	log          *zap.Logger
	postulations *database.PostulationRepository
	vacancies    *database.VacancyRepository
	applicants   *database.ApplicantRepository
	aiResults    *database.AIResultRepository
	transitions  *postulation.Service
	orchestrator *scoring.Orchestrator
	store        *storage.Client
	hub          *realtime.Hub
}

func New(
	cfg *config.Cfg,
	log *zap.Logger,
	db *database.Database,
	transitions *postulation.Service,
	orchestrator *scoring.Orchestrator,
	store *storage.Client,
	hub *realtime.Hub,
) *Server {
	return &Server{
		cfg:          cfg,
		log:          log,
		postulations: database.NewPostulationRepository(db.DB),
		vacancies:    database.NewVacancyRepository(db.DB),
		applicants:   database.NewApplicantRepository(db.DB),
		aiResults:    database.NewAIResultRepository(db.DB),
		transitions:  transitions,
		orchestrator: orchestrator,
		store:        store,
		hub:          hub,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/postulations", s.createPostulation)
		api.GET("/postulations/:id", s.getPostulation)
		api.PATCH("/postulations/:id", s.updatePostulation)
		api.DELETE("/postulations/:id", s.deletePostulation)
		api.POST("/personality/attempts", s.evaluatePersonality)
	}

	admin := r.Group("/api/admin")
	{
		admin.GET("/vacancies/:id/postulations", s.listByVacancy)
		admin.POST("/postulations/:id/steps/:step/start", s.startStep)
		admin.POST("/postulations/:id/reject", s.reject)
	}

	r.GET("/ai/postulations/:id/result", s.aiResult)
	r.GET("/ws", s.websocket)

	return r
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("http server listening", zap.String("addr", s.cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type createPostulationRequest struct {
	VacancyID      uint     `json:"vacancy_id" binding:"required"`
	ApplicantID    uint     `json:"applicant_id" binding:"required"`
	ResidenceAddr  *string  `json:"residence_addr"`
	Age            *int16   `json:"age"`
	RoleExpYears   *float64 `json:"role_exp_years"`
	ExpectedSalary *float64 `json:"expected_salary"`
	Credential     *string  `json:"credential"`
	Number         *string  `json:"number"`
	CVPath         string   `json:"cv_path" binding:"required"`
}

func (s *Server) createPostulation(c *gin.Context) {
	var req createPostulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vacancy, err := s.vacancies.GetByID(req.VacancyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vacancy not found"})
			return
		}
		s.internalError(c, err)
		return
	}
	if _, err := s.applicants.GetByID(req.ApplicantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "applicant not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	p := &database.Postulation{
		VacancyID:      req.VacancyID,
		ApplicantID:    req.ApplicantID,
		ResidenceAddr:  req.ResidenceAddr,
		Age:            req.Age,
		RoleExpYears:   req.RoleExpYears,
		ExpectedSalary: req.ExpectedSalary,
		Credential:     req.Credential,
		Number:         req.Number,
		CVPath:         req.CVPath,
		Status:         string(postulation.StatusSubmitted),
	}
	if err := s.postulations.Create(p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "postulation already exists for this vacancy"})
			return
		}
		s.internalError(c, err)
		return
	}

	s.orchestrator.TriggerAsync(s.buildScoringPayload(c.Request.Context(), p, vacancy))
	c.JSON(http.StatusCreated, p)
}

// buildScoringPayload assembles the request the orchestrator consumes: a CV
// reference (presigned URL preferred, bucket/key fallback) plus the declared
// applicant and vacancy profiles.
func (s *Server) buildScoringPayload(ctx context.Context, p *database.Postulation, v *database.Vacancy) scoring.Payload {
	key := storage.ExtractKeyFromPath(p.CVPath)

	cv := scoring.CVReference{Storage: "s3", S3Bucket: s.store.Bucket(), S3Key: key}
	if presigned, err := s.store.PresignGet(ctx, key, presignExpiry); err == nil {
		cv = scoring.CVReference{Storage: "url", PresignedURL: presigned}
	} else {
		s.log.Warn("presign failed; scoring will use direct object download",
			zap.Uint("postulation_id", p.ID),
			zap.Error(err),
		)
	}

	var age *int
	if p.Age != nil {
		a := int(*p.Age)
		age = &a
	}

	return scoring.Payload{
		PostulationID: p.ID,
		VacancyID:     &p.VacancyID,
		Position:      v.Title,
		CV:            cv,
		ApplicantProfile: &scoring.ApplicantProfile{
			ResidenceAddr:  p.ResidenceAddr,
			Age:            age,
			RoleExpYears:   p.RoleExpYears,
			ExpectedSalary: p.ExpectedSalary,
			Phone:          p.Number,
			Credential:     p.Credential,
		},
		VacancyProfile: &scoring.VacancyProfile{
			Location:          strField(v.Location),
			Modality:          strField(v.Modality),
			RoleObjective:     strField(v.RoleObjective),
			Responsibilities:  strField(v.Responsibilities),
			ReqEducation:      strField(v.ReqEducation),
			ReqExperience:     strField(v.ReqExperience),
			ReqKnowledge:      strField(v.ReqKnowledge),
			ChargeTitle:       strField(v.Title),
			ChargeDescription: strField(v.Description),
			ChargeArea:        strField(v.Area),
		},
	}
}

func (s *Server) getPostulation(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	p, err := s.postulations.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "postulation not found"})
			return
		}
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) listByVacancy(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	rows, err := s.postulations.ListByVacancy(id, limit, offset)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type updatePostulationRequest struct {
	ResidenceAddr  *string  `json:"residence_addr"`
	Age            *int16   `json:"age"`
	RoleExpYears   *float64 `json:"role_exp_years"`
	ExpectedSalary *float64 `json:"expected_salary"`
	Credential     *string  `json:"credential"`
	Number         *string  `json:"number"`
}

func (s *Server) updatePostulation(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req updatePostulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if req.ResidenceAddr != nil {
		fields["residence_addr"] = *req.ResidenceAddr
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.RoleExpYears != nil {
		fields["role_exp_years"] = *req.RoleExpYears
	}
	if req.ExpectedSalary != nil {
		fields["expected_salary"] = *req.ExpectedSalary
	}
	if req.Credential != nil {
		fields["credential"] = *req.Credential
	}
	if req.Number != nil {
		fields["number"] = *req.Number
	}

	if err := s.postulations.UpdateProfile(id, fields); err != nil {
		s.internalError(c, err)
		return
	}

	p, err := s.postulations.GetByID(id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// deletePostulation is the explicit withdrawal/admin-delete path: it removes
// the row and the stored CV object.
func (s *Server) deletePostulation(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	p, err := s.postulations.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "postulation not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	if err := s.postulations.Delete(id); err != nil {
		s.internalError(c, err)
		return
	}
	s.store.DeleteObject(c.Request.Context(), storage.ExtractKeyFromPath(p.CVPath))

	c.Status(http.StatusNoContent)
}

func (s *Server) startStep(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid step"})
		return
	}
	target, ok := adminSteps[step]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown step"})
		return
	}

	p, err := s.postulations.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "postulation not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	// Only the acceptance step notifies the candidate by mail.
	sendEmail := target == postulation.StatusAccepted

	if err := s.transitions.Transition(c.Request.Context(), p, target, sendEmail); err != nil {
		s.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) reject(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	var req rejectRequest
	_ = c.ShouldBindJSON(&req)

	p, err := s.postulations.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "postulation not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	if req.Reason != "" {
		p.StatusReason = &req.Reason
	}
	if err := s.transitions.Transition(c.Request.Context(), p, postulation.StatusRejected, false); err != nil {
		s.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) aiResult(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	row, err := s.aiResults.LatestByPostulation(id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if row == nil {
		c.JSON(http.StatusOK, gin.H{
			"postulation_id": id,
			"vacancy_id":     nil,
			"score":          nil,
			"feedback":       "pending",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"postulation_id": row.PostulationID,
		"vacancy_id":     row.VacancyID,
		"score":          row.Score,
		"feedback":       row.Feedback,
	})
}

type personalityRequest struct {
	Answers []personality.Answer `json:"answers" binding:"required"`
}

func (s *Server) evaluatePersonality(c *gin.Context) {
	var req personalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, personality.Evaluate(req.Answers))
}

func (s *Server) websocket(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	if err := s.hub.Serve(c.Writer, c.Request, uint(userID)); err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
	}
}

func (s *Server) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// transitionError maps state-machine violations to 400s; anything else is a
// persistence failure and stays a 500.
func (s *Server) transitionError(c *gin.Context, err error) {
	var illegal *postulation.IllegalTransitionError
	if errors.As(err, &illegal) || errors.Is(err, postulation.ErrUnknownStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.internalError(c, err)
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func strField(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
