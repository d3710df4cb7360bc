package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/stock"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RecordEventUseCase valida un evento propuesto y lo agrega al log.
// Un evento rechazado nunca llega al repositorio.
type RecordEventUseCase struct {
	repo repository.StockEventRepository
	log  *logger.Logger
}

// NewRecordEventUseCase construye el caso de uso.
func NewRecordEventUseCase(repo repository.StockEventRepository, log *logger.Logger) *RecordEventUseCase {
	return &RecordEventUseCase{repo: repo, log: log.Component("record_event")}
}

// Record valida req y persiste el evento a nombre de performedBy.
// Los errores de validación (*domain.ValidationError) se devuelven sin envolver.
func (uc *RecordEventUseCase) Record(ctx context.Context, performedBy string, req dto.RecordEventRequest) (*dto.StockEventDTO, error) {
	validated, err := stock.Validate(stock.Candidate{
		ItemID:       req.ItemID,
		Type:         req.EventType,
		Quantity:     req.Quantity,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		PerformedBy:  performedBy,
		Note:         req.Note,
	})
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Append(ctx, validated.Record())
	if err != nil {
		return nil, fmt.Errorf("registrar evento: %w", err)
	}

	uc.log.Info().
		Str("event_id", saved.ID).
		Str("item_id", saved.ItemID).
		Str("event_type", string(saved.Type)).
		Int64("quantity", validated.Units()).
		Str("performed_by", saved.PerformedBy).
		Msg("evento registrado")

	out := toEventDTO(*saved)
	return &out, nil
}
