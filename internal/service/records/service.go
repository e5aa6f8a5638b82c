package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

// ErrValidation wraps local precondition failures caught before any store
// round-trip.
var ErrValidation = errors.New("validation failed")

// SlotConflictError reports that a save in NEW mode targets a slot that
// already holds a record. It is a designed decision point, not a hard
// failure: the caller resolves it with ResolutionUpdate or
// ResolutionDuplicate, or abandons the save.
type SlotConflictError struct {
	Existing models.DailyCultivationRecord
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot cycle=%s day=%d already holds record %s",
		e.Existing.Cycle(), e.Existing.DayNumber, e.Existing.ID)
}

// Resolution is the user's answer to a slot conflict on save.
type Resolution string

const (
	// ResolutionNone means no answer yet; a conflicting save fails with
	// SlotConflictError so the choice can be put to the user.
	ResolutionNone Resolution = ""
	// ResolutionUpdate rebinds the session to the existing record and
	// overwrites it.
	ResolutionUpdate Resolution = "update"
	// ResolutionDuplicate deliberately inserts a second record for the same
	// slot.
	ResolutionDuplicate Resolution = "duplicate"
)

// validateDoses checks every nutrient quantity against its closed
// enumeration before the record leaves the service.
func validateDoses(section models.NutrientSection) error {
	for _, pond := range section.Ponds {
		if !models.ValidDoseQuantity(pond.PSB.Quantity, true) {
			return fmt.Errorf("%w: pond %d psb quantity %q is not an allowed dose", ErrValidation, pond.PondNumber, pond.PSB.Quantity)
		}
		for name, dose := range map[string]models.NutrientDose{
			"peanut":       pond.Peanut,
			"soybean":      pond.Soybean,
			"fruit":        pond.Fruit,
			"hormone":      pond.Hormone,
			"coconutWater": pond.CoconutWater,
		} {
			if !models.ValidDoseQuantity(dose.Quantity, false) {
				return fmt.Errorf("%w: pond %d %s quantity %q is not an allowed dose", ErrValidation, pond.PondNumber, name, dose.Quantity)
			}
		}
	}
	return nil
}

// Store is the slice of the entity store the record workflow needs.
type Store interface {
	ListByEnterprise(ctx context.Context, enterpriseName string) ([]models.DailyCultivationRecord, error)
	Insert(ctx context.Context, record models.DailyCultivationRecord) (models.DailyCultivationRecord, error)
	Update(ctx context.Context, id string, record models.DailyCultivationRecord) (models.DailyCultivationRecord, error)
}

// Service orchestrates editor sessions against the record store.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the record workflow service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// SelectEnterprise loads the enterprise's record set and resets the session
// onto it.
func (svc *Service) SelectEnterprise(ctx context.Context, s *Session, name string) error {
	if name == "" {
		s.SelectEnterprise("", nil)
		return nil
	}

	recs, err := svc.store.ListByEnterprise(ctx, name)
	if err != nil {
		return fmt.Errorf("load records for %s: %w", name, err)
	}

	s.SelectEnterprise(name, recs)
	svc.logger.Info("enterprise selected",
		zap.String("session", s.ID),
		zap.String("enterprise", name),
		zap.Int("records", len(recs)))
	return nil
}

// Save validates the session, resolves any slot conflict per the supplied
// resolution and writes the assembled record. In EDITING mode the bound
// record is updated in place; in NEW mode a record is inserted. On success
// the session is reset onto a refreshed index; on failure the session state
// is left unchanged so nothing is half-committed.
func (svc *Service) Save(ctx context.Context, s *Session, resolution Resolution) (models.DailyCultivationRecord, error) {
	if s.EnterpriseName() == "" {
		return models.DailyCultivationRecord{}, fmt.Errorf("%w: select an enterprise before saving", ErrValidation)
	}
	if s.Day() == 0 {
		return models.DailyCultivationRecord{}, fmt.Errorf("%w: select a day before saving", ErrValidation)
	}
	if err := validateDoses(s.Form().Nutrients); err != nil {
		return models.DailyCultivationRecord{}, err
	}

	if s.Mode() == ModeNew {
		if existing, ok := s.SlotConflict(); ok {
			switch resolution {
			case ResolutionUpdate:
				s.BindExisting(existing.ID)
			case ResolutionDuplicate:
				// Proceed as an insert; a second record for the slot is the
				// explicit intent.
			default:
				return models.DailyCultivationRecord{}, &SlotConflictError{Existing: existing}
			}
		}
	}

	rec := s.BuildRecord()
	rec.RecordedAt = svc.now()

	var (
		saved models.DailyCultivationRecord
		err   error
	)

	if s.Mode() == ModeEditing {
		saved, err = svc.store.Update(ctx, s.EditingID(), rec)
		if err != nil {
			return models.DailyCultivationRecord{}, fmt.Errorf("update record %s: %w", s.EditingID(), err)
		}
	} else {
		saved, err = svc.store.Insert(ctx, rec)
		if err != nil {
			return models.DailyCultivationRecord{}, fmt.Errorf("insert record: %w", err)
		}
	}

	svc.logger.Info("record saved",
		zap.String("session", s.ID),
		zap.String("record_id", saved.ID),
		zap.String("enterprise", saved.EnterpriseName),
		zap.String("cycle", saved.Cycle().Key()),
		zap.Int("day", saved.DayNumber))

	// Reload, as the workflow expects after a save. A refresh failure keeps
	// the save result; the stale index only affects hints until the next
	// enterprise selection.
	if recs, refreshErr := svc.store.ListByEnterprise(ctx, s.EnterpriseName()); refreshErr != nil {
		svc.logger.Warn("index refresh after save failed", zap.Error(refreshErr))
	} else {
		s.RefreshIndex(recs)
	}
	s.Reset()

	return saved, nil
}
