package services

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/repository"
)

// WizardService drives the multi-step quote builder state machine. State
// lives in a session repository; every operation loads, mutates and saves
// one session.
type WizardService interface {
	Start(ctx context.Context) (*models.Session, *ServiceError)
	Get(ctx context.Context, sessionID string) (*models.Session, *ServiceError)
	SelectVehicle(ctx context.Context, sessionID, vehicleID string) (*models.Session, *ServiceError)
	Toggle(ctx context.Context, sessionID, itemID string) (*models.Session, *ServiceError)
	Next(ctx context.Context, sessionID string) (*models.Session, *ServiceError)
	Back(ctx context.Context, sessionID string) (*models.Session, *ServiceError)
	Totals(ctx context.Context, sessionID string) (*models.Totals, *ServiceError)
}

type wizardServiceImpl struct {
	sessions   repository.SessionRepository
	catalog    CatalogService
	enrichment EnrichmentService
	logger     *zap.Logger
}

// NewWizardService creates a WizardService.
func NewWizardService(
	sessions repository.SessionRepository,
	catalog CatalogService,
	enrichment EnrichmentService,
	logger *zap.Logger,
) WizardService {
	return &wizardServiceImpl{
		sessions:   sessions,
		catalog:    catalog,
		enrichment: enrichment,
		logger:     logger,
	}
}

func (s *wizardServiceImpl) Start(ctx context.Context) (*models.Session, *ServiceError) {
	session := &models.Session{
		ID:         uuid.NewString(),
		StepIndex:  0,
		Selections: make(map[string][]string),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Failed to save session", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Code: CodeInternalFailure, Message: "Failed to start session"}
	}
	return session, nil
}

func (s *wizardServiceImpl) Get(ctx context.Context, sessionID string) (*models.Session, *ServiceError) {
	return s.loadSession(ctx, sessionID)
}

func (s *wizardServiceImpl) SelectVehicle(ctx context.Context, sessionID, vehicleID string) (*models.Session, *ServiceError) {
	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, s.catalogError(err)
	}
	if _, ok := catalog.VehicleByID(vehicleID); !ok {
		return nil, badRequest("unknown vehicle: " + vehicleID)
	}
	session.VehicleID = vehicleID
	return s.saveSession(ctx, session)
}

// Toggle flips the selection of an item within its own step. Single-choice
// steps keep at most one selection; multiple-choice steps have set
// semantics.
func (s *wizardServiceImpl) Toggle(ctx context.Context, sessionID, itemID string) (*models.Session, *ServiceError) {
	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, s.catalogError(err)
	}
	item, ok := catalog.ItemByID(itemID)
	if !ok {
		return nil, badRequest("unknown item: " + itemID)
	}

	var mode string
	for _, step := range catalog.Steps {
		if step.ID == item.StepID {
			mode = step.SelectionMode
			break
		}
	}

	current := session.Selections[item.StepID]
	idx := -1
	for i, id := range current {
		if id == itemID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		session.Selections[item.StepID] = append(current[:idx], current[idx+1:]...)
	} else {
		if mode == models.SelectionSingle {
			current = nil
		}
		session.Selections[item.StepID] = append(current, itemID)
	}
	return s.saveSession(ctx, session)
}

// Next advances a step. A required step must be complete before advancing;
// the last step is terminated by submission, never by Next.
func (s *wizardServiceImpl) Next(ctx context.Context, sessionID string) (*models.Session, *ServiceError) {
	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, s.catalogError(err)
	}
	if session.StepIndex >= len(catalog.Steps)-1 {
		return nil, badRequest("already on the final step")
	}
	step := catalog.Steps[session.StepIndex]
	if step.Required && !stepComplete(step, session) {
		return nil, badRequest("complete the current step before continuing")
	}
	session.StepIndex++
	return s.saveSession(ctx, session)
}

func (s *wizardServiceImpl) Back(ctx context.Context, sessionID string) (*models.Session, *ServiceError) {
	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if session.StepIndex > 0 {
		session.StepIndex--
	}
	return s.saveSession(ctx, session)
}

// Totals sums price and weight across every selection in the session,
// using autospec enrichment data. Items without enrichment data contribute
// zero rather than erroring.
func (s *wizardServiceImpl) Totals(ctx context.Context, sessionID string) (*models.Totals, *ServiceError) {
	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, s.catalogError(err)
	}

	var variantIDs []int64
	for _, itemID := range session.SelectedItemIDs() {
		item, ok := catalog.ItemByID(itemID)
		if !ok {
			continue
		}
		if id, ok := item.SampleVariantID(); ok {
			variantIDs = append(variantIDs, id)
		}
	}

	totals := &models.Totals{}
	if len(variantIDs) == 0 {
		return totals, nil
	}

	records, svcErr := s.enrichment.Enrich(ctx, models.StoreAutospec, variantIDs)
	if svcErr != nil {
		return nil, svcErr
	}
	for _, id := range variantIDs {
		if record, ok := records[strconv.FormatInt(id, 10)]; ok && record != nil {
			totals.Price += record.Price
			totals.WeightKg += record.WeightKg
		}
	}
	return totals, nil
}

// stepComplete mirrors the storefront's gating: selection-free steps are
// always complete, the vehicle step needs a vehicle, accessory steps need
// at least one selection.
func stepComplete(step models.WizardStep, session *models.Session) bool {
	if step.SelectionMode == models.SelectionNone {
		return true
	}
	if step.ID == models.StepVehicleSelect {
		return session.VehicleID != ""
	}
	return len(session.Selections[step.ID]) > 0
}

func (s *wizardServiceImpl) loadSession(ctx context.Context, sessionID string) (*models.Session, *ServiceError) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Code: CodeInternalFailure, Message: "Failed to load session"}
	}
	if session == nil {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Code: CodeBadRequest, Message: "Session not found or expired"}
	}
	if session.Selections == nil {
		session.Selections = make(map[string][]string)
	}
	return session, nil
}

func (s *wizardServiceImpl) saveSession(ctx context.Context, session *models.Session) (*models.Session, *ServiceError) {
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Failed to save session", zap.String("session_id", session.ID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Code: CodeInternalFailure, Message: "Failed to save session"}
	}
	return session, nil
}

func (s *wizardServiceImpl) catalogError(err error) *ServiceError {
	s.logger.Error("Catalog load failed", zap.Error(err))
	return &ServiceError{StatusCode: http.StatusInternalServerError, Code: CodeInternalFailure, Message: "Failed to load catalog"}
}
