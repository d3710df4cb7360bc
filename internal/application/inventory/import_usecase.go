package inventory

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/stock"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ImportMode define qué se hace con cada línea del export.
type ImportMode string

const (
	// ImportValidate aplica las reglas de registro; las líneas inválidas se reportan y se omiten.
	ImportValidate ImportMode = "validate"
	// ImportRaw migra el historial tal cual: solo exige item id. Las cantidades
	// ilegibles o con signo quedan para que la reconstrucción las trate.
	ImportRaw ImportMode = "raw"
)

// Códigos de rechazo propios de la importación (además de los de validación).
const (
	codeInvalidJSON      = "INVALID_JSON"
	codeInvalidTimestamp = "INVALID_TIMESTAMP"
	maxReportedErrors    = 100
	maxLineBytes         = 1 << 20
)

// ParseImportMode "" → validate.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportValidate:
		return ImportValidate, nil
	case ImportRaw:
		return ImportRaw, nil
	default:
		return "", fmt.Errorf("modo de importación %q: %w", s, domain.ErrInvalidInput)
	}
}

// legacyRecord una línea del export NDJSON de la colección original.
type legacyRecord struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"itemId"`
	EventType    string          `json:"eventType"`
	Type         string          `json:"type"`
	Quantity     json.RawMessage `json:"quantity"`
	FromLocation string          `json:"fromLocation"`
	ToLocation   string          `json:"toLocation"`
	PerformedBy  string          `json:"performedBy"`
	Note         string          `json:"note"`
	Timestamp    json.RawMessage `json:"timestamp"`
}

func (r legacyRecord) eventType() string {
	if r.EventType != "" {
		return r.EventType
	}
	return r.Type
}

// ImportUseCase carga exports históricos en el log de eventos.
type ImportUseCase struct {
	repo repository.StockEventRepository
	log  *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(repo repository.StockEventRepository, log *logger.Logger) *ImportUseCase {
	return &ImportUseCase{repo: repo, log: log.Component("import")}
}

// Import lee r línea a línea. Las líneas aceptadas se escriben en una sola
// transacción; una línea rechazada nunca aborta la importación.
func (uc *ImportUseCase) Import(ctx context.Context, r io.Reader, mode ImportMode) (*dto.ImportResultDTO, error) {
	result := &dto.ImportResultDTO{Mode: string(mode), Errors: []dto.ImportLineError{}}
	var accepted []entity.StockEvent

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		result.Read++

		event, code, err := decodeLine(raw, mode)
		if err != nil {
			result.Rejected++
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, dto.ImportLineError{Line: line, Code: code, Message: err.Error()})
			}
			uc.log.Debug().Int("line", line).Str("code", code).Err(err).Msg("línea rechazada")
			continue
		}
		accepted = append(accepted, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("leer importación (línea %d): %w", line+1, err)
	}

	n, err := uc.repo.Import(ctx, accepted)
	if err != nil {
		return nil, fmt.Errorf("importar eventos: %w", err)
	}
	result.Imported = n

	uc.log.Info().
		Str("mode", string(mode)).
		Int("read", result.Read).
		Int("imported", result.Imported).
		Int("rejected", result.Rejected).
		Msg("importación terminada")
	return result, nil
}

func decodeLine(raw []byte, mode ImportMode) (entity.StockEvent, string, error) {
	var rec legacyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return entity.StockEvent{}, codeInvalidJSON, err
	}
	ts, err := parseLegacyTimestamp(rec.Timestamp)
	if err != nil {
		return entity.StockEvent{}, codeInvalidTimestamp, err
	}

	var event entity.StockEvent
	if mode == ImportRaw {
		if strings.TrimSpace(rec.ItemID) == "" {
			err := &domain.ValidationError{Field: "item_id", Err: domain.ErrMissingItem}
			return entity.StockEvent{}, domain.ValidationCode(err), err
		}
		event = entity.StockEvent{
			ItemID:       strings.TrimSpace(rec.ItemID),
			Type:         entity.ParseEventType(rec.eventType()),
			Quantity:     parseLegacyQuantity(rec.Quantity),
			FromLocation: strings.TrimSpace(rec.FromLocation),
			ToLocation:   strings.TrimSpace(rec.ToLocation),
			PerformedBy:  rec.PerformedBy,
			Note:         rec.Note,
		}
	} else {
		// El formulario original guardaba MOVE y DELIVER con signo negativo:
		// se valida la magnitud.
		var qty decimal.Decimal
		if q := parseLegacyQuantity(rec.Quantity); q.Valid {
			qty = q.Decimal.Abs()
		}
		validated, err := stock.Validate(stock.Candidate{
			ItemID:       rec.ItemID,
			Type:         rec.eventType(),
			Quantity:     qty,
			FromLocation: rec.FromLocation,
			ToLocation:   rec.ToLocation,
			PerformedBy:  rec.PerformedBy,
			Note:         rec.Note,
		})
		if err != nil {
			return entity.StockEvent{}, domain.ValidationCode(err), err
		}
		event = validated.Record()
	}
	event.ID = strings.TrimSpace(rec.ID)
	event.Timestamp = ts
	return event, "", nil
}

// parseLegacyQuantity acepta número o texto; cualquier otra cosa queda nula.
func parseLegacyQuantity(raw json.RawMessage) decimal.NullDecimal {
	if len(raw) == 0 {
		return decimal.NullDecimal{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parseLegacyTimestamp acepta RFC 3339, milisegundos Unix o el objeto
// {"seconds","nanoseconds"} de los exports de Firestore. Ausente → cero (el store asigna la hora).
func parseLegacyTimestamp(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
		}
		return t.UTC(), nil
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	var fs struct {
		Seconds     *int64 `json:"seconds"`
		Nanoseconds int64  `json:"nanoseconds"`
	}
	if err := json.Unmarshal(raw, &fs); err == nil && fs.Seconds != nil {
		return time.Unix(*fs.Seconds, fs.Nanoseconds).UTC(), nil
	}
	return time.Time{}, errors.New("timestamp ilegible")
}
