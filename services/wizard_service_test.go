package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/repository"
)

const wizardSeed = `{
  "steps": [
    {"id": "vehicle_select", "title": "Choose your vehicle", "selectionMode": "single", "required": true},
    {"id": "protection", "title": "Frontal protection", "selectionMode": "single", "required": true},
    {"id": "lighting", "title": "Driving lights", "selectionMode": "multiple", "required": false},
    {"id": "customer_form", "title": "Your details", "selectionMode": "none", "required": true}
  ],
  "vehicles": [
    {"id": "hilux-n80", "make": "Toyota", "model": "Hilux N80"}
  ],
  "items": [
    {"id": "bullbar", "name": "Bull Bar", "stepId": "protection", "variantIdByStore": {"autospec": 111}},
    {"id": "nudge", "name": "Nudge Bar", "stepId": "protection", "variantIdByStore": {"autospec": 222}},
    {"id": "lights", "name": "Driving Lights", "stepId": "lighting", "variantIdByStore": {"autospec": 333}},
    {"id": "lightbar", "name": "Light Bar", "stepId": "lighting", "variantIdByStore": {"autospec": 444}}
  ]
}`

// stubEnrichment returns a fixed record set.
type stubEnrichment struct {
	records map[string]*models.EnrichmentRecord
}

func (s *stubEnrichment) Enrich(_ context.Context, _ string, _ []int64) (map[string]*models.EnrichmentRecord, *ServiceError) {
	return s.records, nil
}

func newWizardFixture(t *testing.T, enrichment EnrichmentService) WizardService {
	t.Helper()
	seedPath := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(wizardSeed), 0o600))

	catalog := NewCatalogService(seedPath, nil, zap.NewNop())
	sessions := repository.NewMemorySessionRepository(time.Minute)
	return NewWizardService(sessions, catalog, enrichment, zap.NewNop())
}

func TestWizard_StartAtStepZero(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})

	session, svcErr := svc.Start(context.Background())
	require.Nil(t, svcErr)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, 0, session.StepIndex)
	assert.Empty(t, session.Selections)
}

func TestWizard_NextBlockedUntilVehicleChosen(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})
	ctx := context.Background()

	session, _ := svc.Start(ctx)

	_, svcErr := svc.Next(ctx, session.ID)
	require.NotNil(t, svcErr, "vehicle step is required")

	_, svcErr = svc.SelectVehicle(ctx, session.ID, "hilux-n80")
	require.Nil(t, svcErr)

	session, svcErr = svc.Next(ctx, session.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, 1, session.StepIndex)
}

func TestWizard_UnknownVehicleRejected(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})
	ctx := context.Background()

	session, _ := svc.Start(ctx)
	_, svcErr := svc.SelectVehicle(ctx, session.ID, "delorean")
	require.NotNil(t, svcErr)
	assert.Equal(t, CodeBadRequest, svcErr.Code)
}

func TestWizard_SingleSelectionReplacesPrior(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})
	ctx := context.Background()

	session, _ := svc.Start(ctx)
	_, err := svc.Toggle(ctx, session.ID, "bullbar")
	require.Nil(t, err)
	session, err = svc.Toggle(ctx, session.ID, "nudge")
	require.Nil(t, err)

	assert.Equal(t, []string{"nudge"}, session.Selections["protection"])
}

func TestWizard_MultipleSelectionTogglesIdempotently(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})
	ctx := context.Background()

	session, _ := svc.Start(ctx)
	_, err := svc.Toggle(ctx, session.ID, "lights")
	require.Nil(t, err)
	session, err = svc.Toggle(ctx, session.ID, "lightbar")
	require.Nil(t, err)
	assert.ElementsMatch(t, []string{"lights", "lightbar"}, session.Selections["lighting"])

	// Toggling again removes.
	session, err = svc.Toggle(ctx, session.ID, "lights")
	require.Nil(t, err)
	assert.Equal(t, []string{"lightbar"}, session.Selections["lighting"])
}

func TestWizard_OptionalStepAdvancesWithoutSelection(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})
	ctx := context.Background()

	session, _ := svc.Start(ctx)
	_, _ = svc.SelectVehicle(ctx, session.ID, "hilux-n80")
	_, _ = svc.Next(ctx, session.ID)            // -> protection
	_, _ = svc.Toggle(ctx, session.ID, "bullbar")
	session, svcErr := svc.Next(ctx, session.ID) // -> lighting
	require.Nil(t, svcErr)
	assert.Equal(t, 2, session.StepIndex)

	// Lighting is not required; advance with nothing selected.
	session, svcErr = svc.Next(ctx, session.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, 3, session.StepIndex)
}

func TestWizard_FinalStepNotAdvancedByNext(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})
	ctx := context.Background()

	session, _ := svc.Start(ctx)
	_, _ = svc.SelectVehicle(ctx, session.ID, "hilux-n80")
	_, _ = svc.Next(ctx, session.ID)
	_, _ = svc.Toggle(ctx, session.ID, "bullbar")
	_, _ = svc.Next(ctx, session.ID)
	_, _ = svc.Next(ctx, session.ID) // now on customer_form, the last step

	_, svcErr := svc.Next(ctx, session.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, CodeBadRequest, svcErr.Code)
}

func TestWizard_BackStopsAtZero(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})
	ctx := context.Background()

	session, _ := svc.Start(ctx)
	session, svcErr := svc.Back(ctx, session.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, 0, session.StepIndex)
}

func TestWizard_TotalsToleratesMissingEnrichment(t *testing.T) {
	enrichment := &stubEnrichment{
		records: map[string]*models.EnrichmentRecord{
			// Only the bullbar has data; lights (333) is missing.
			"111": {Price: 2890, WeightKg: 42},
		},
	}
	svc := newWizardFixture(t, enrichment)
	ctx := context.Background()

	session, _ := svc.Start(ctx)
	_, _ = svc.Toggle(ctx, session.ID, "bullbar")
	_, _ = svc.Toggle(ctx, session.ID, "lights")

	totals, svcErr := svc.Totals(ctx, session.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, 2890.0, totals.Price)
	assert.Equal(t, 42.0, totals.WeightKg)
}

func TestWizard_ExpiredSessionIsNotFound(t *testing.T) {
	svc := newWizardFixture(t, &stubEnrichment{})

	_, svcErr := svc.Get(context.Background(), "no-such-session")
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
