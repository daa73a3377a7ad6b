package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
	"github.com/fakturahaus/faktura-api/pkg/logger"
)

// Service ist das Lagerjournal: append-only Bewegungslog, aus dem Bestand,
// Reservierungen und freie Menge bei jedem Lesen abgeleitet werden. Es gibt
// bewusst keine materialisierte Bestandsspalte und keinen Cache; das Log ist
// die einzige Wahrheit.
type Service struct {
	movements  repository.StockMovementRepository
	warehouses repository.WarehouseRepository
	minStock   repository.MinimumStockRepository
	bootstrap  SchemaBootstrapper
	cfg        Config
	log        *logger.Logger

	// Bootstrap-Zustand: einmal pro Prozesslaufzeit, Rücksetzung nur durch
	// Neustart. Bewusst explizit statt sync.Once, damit der Lebenszyklus
	// im Code sichtbar ist.
	bootMu   sync.Mutex
	bootDone bool
}

// NewService baut das Lagerjournal. bootstrap darf nil sein (z. B. wenn das
// Schema per Migration bereitgestellt wird); dann entfällt der Lazy-Bootstrap.
func NewService(
	movements repository.StockMovementRepository,
	warehouses repository.WarehouseRepository,
	minStock repository.MinimumStockRepository,
	bootstrap SchemaBootstrapper,
	cfg Config,
	log *logger.Logger,
) *Service {
	if cfg.DefaultWarehouseID == 0 {
		cfg.DefaultWarehouseID = 1
	}
	return &Service{
		movements:  movements,
		warehouses: warehouses,
		minStock:   minStock,
		bootstrap:  bootstrap,
		cfg:        cfg,
		log:        log,
	}
}

// MovementInput ist die Eingabe für AppendMovement. WarehouseID 0 bedeutet
// Standardlager; RefTable/RefID verknüpfen die Bewegung mit dem auslösenden
// Dokument (z. B. "offers"/17).
type MovementInput struct {
	ProductID   int64
	Quantity    decimal.Decimal
	Type        entity.MovementType
	WarehouseID int64
	RefTable    string
	RefID       int64
	Note        string
	CreatedBy   string
}

// ReserveInput ist die Eingabe für ReserveStock (Typ ist implizit RESERVE).
type ReserveInput struct {
	ProductID   int64
	Quantity    decimal.Decimal
	WarehouseID int64
	RefTable    string
	RefID       int64
	Note        string
	CreatedBy   string
}

// ensureBootstrap führt den Schema-Bootstrap höchstens einmal pro
// Prozesslaufzeit aus. Fehler werden geloggt und verschluckt: wurde das
// Schema außerhalb bereitgestellt, funktioniert das System trotzdem, sonst
// schlagen die folgenden Operationen mit dem Datenbankfehler fehl.
func (s *Service) ensureBootstrap(ctx context.Context) {
	if s.bootstrap == nil {
		return
	}
	s.bootMu.Lock()
	defer s.bootMu.Unlock()
	if s.bootDone {
		return
	}
	if err := s.bootstrap.EnsureLedgerSchema(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Lagerjournal: Schema-Bootstrap fehlgeschlagen, fahre fort")
	}
	s.bootDone = true
}

// validate prüft die Eingabe ohne Seiteneffekte. Für IN/OUT/RESERVE muss die
// Menge strikt positiv sein (das Vorzeichen steckt im Typ); ADJUST trägt ein
// explizites Vorzeichen und darf nur nicht null sein.
func validate(in MovementInput) error {
	if !in.Type.Valid() {
		return domain.ErrUnknownMovement
	}
	if in.ProductID <= 0 {
		return domain.ErrInvalidInput
	}
	if in.Type == entity.MovementADJUST {
		if in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
		return nil
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// AppendMovement validiert und hängt genau eine unveränderliche Journalzeile
// an; Rückgabe ist deren ID (0 bei Validierungsfehler, nichts geschrieben).
//
// Bestandsschutz (cfg.PreventNegativeStock, Standard aus): für OUT und
// RESERVE wird vorab die freie Menge projiziert und bei Unterdeckung mit
// InsufficientStockError abgebrochen. Dieses Lesen-dann-Schreiben ist ohne
// serialisierte Transaktion nicht sicher gegen zwei gleichzeitige Abgänge
// über dieselbe Schwelle; Aufrufer mit strikten Anforderungen kapseln
// AppendMovementTx in ihrer eigenen Transaktionsgrenze. Das ist eine
// dokumentierte Eigenschaft, kein Versehen.
func (s *Service) AppendMovement(ctx context.Context, in MovementInput) (int64, error) {
	s.ensureBootstrap(ctx)
	return s.appendWith(ctx, s.movements, in)
}

// AppendMovementTx ist die transaktionsgebundene Variante: movRepo ist an die
// Transaktion des Aufrufers gebunden, der Bootstrap wird übersprungen (kein
// DDL innerhalb einer offenen Transaktion).
func (s *Service) AppendMovementTx(ctx context.Context, movRepo repository.StockMovementRepository, in MovementInput) (int64, error) {
	return s.appendWith(ctx, movRepo, in)
}

func (s *Service) appendWith(ctx context.Context, movRepo repository.StockMovementRepository, in MovementInput) (int64, error) {
	if err := validate(in); err != nil {
		return 0, err
	}
	warehouseID := in.WarehouseID
	if warehouseID == 0 {
		warehouseID = s.cfg.DefaultWarehouseID
	}

	if s.cfg.PreventNegativeStock && (in.Type == entity.MovementOUT || in.Type == entity.MovementRESERVE) {
		snap, err := movRepo.GetSnapshot(ctx, in.ProductID, warehouseID)
		if err != nil {
			return 0, fmt.Errorf("Bestand projizieren: %w", err)
		}
		if in.Quantity.GreaterThan(snap.Free) {
			return 0, &domain.InsufficientStockError{
				ProductID:   in.ProductID,
				WarehouseID: warehouseID,
				Requested:   in.Quantity,
				Available:   snap.Free,
			}
		}
	}

	m := &entity.StockMovement{
		WarehouseID: warehouseID,
		ProductID:   in.ProductID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		RefTable:    in.RefTable,
		RefID:       in.RefID,
		Note:        in.Note,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   time.Now(),
	}
	id, err := movRepo.Create(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("Bewegung anhängen: %w", err)
	}
	s.log.Debug().
		Int64("movement_id", id).
		Int64("product_id", in.ProductID).
		Int64("warehouse_id", warehouseID).
		Str("type", string(in.Type)).
		Str("quantity", in.Quantity.String()).
		Msg("Lagerbewegung angehängt")
	return id, nil
}

// GetStock projiziert {Total, Reserved, Free} für ein (Artikel, Lager)-Paar
// aus der vollständigen Journalhistorie. Reines Lesen, nie ein Schreiben;
// unbekannte Paare liefern Nullen.
func (s *Service) GetStock(ctx context.Context, productID, warehouseID int64) (*entity.StockSnapshot, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	s.ensureBootstrap(ctx)
	if warehouseID == 0 {
		warehouseID = s.cfg.DefaultWarehouseID
	}
	return s.movements.GetSnapshot(ctx, productID, warehouseID)
}

// ReserveStock ist der dünne RESERVE-Wrapper für Dokument-Workflows
// ("Angebot angenommen").
func (s *Service) ReserveStock(ctx context.Context, in ReserveInput) (int64, error) {
	return s.AppendMovement(ctx, MovementInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Type:        entity.MovementRESERVE,
		WarehouseID: in.WarehouseID,
		RefTable:    in.RefTable,
		RefID:       in.RefID,
		Note:        in.Note,
		CreatedBy:   in.CreatedBy,
	})
}

// ConvertReservationsToConsumption wandelt alle ausstehenden Reservierungen
// einer Dokumentreferenz in Abgänge um ("Rechnung gestellt"). Reihenfolge je
// Zeile ist zwingend: erst der ersetzende OUT dauerhaft angehängt, dann die
// RESERVE-Zeile gelöscht. So gibt es nie ein Fenster, in dem der Bestand frei
// erscheint, ohne verbraucht zu sein. Null Treffer sind Erfolg mit Anzahl 0.
func (s *Service) ConvertReservationsToConsumption(ctx context.Context, refTable string, refID, warehouseID int64) (int, error) {
	s.ensureBootstrap(ctx)
	return s.convertWith(ctx, s.movements, refTable, refID, warehouseID)
}

// ConvertReservationsTx ist die transaktionsgebundene Variante (z. B. im
// selben Commit wie das Anlegen der Rechnung).
func (s *Service) ConvertReservationsTx(ctx context.Context, movRepo repository.StockMovementRepository, refTable string, refID, warehouseID int64) (int, error) {
	return s.convertWith(ctx, movRepo, refTable, refID, warehouseID)
}

func (s *Service) convertWith(ctx context.Context, movRepo repository.StockMovementRepository, refTable string, refID, warehouseID int64) (int, error) {
	reservations, err := movRepo.ListReservations(ctx, refTable, refID, warehouseID)
	if err != nil {
		return 0, fmt.Errorf("Reservierungen lesen: %w", err)
	}
	converted := 0
	for _, res := range reservations {
		out := &entity.StockMovement{
			WarehouseID: res.WarehouseID,
			ProductID:   res.ProductID,
			Type:        entity.MovementOUT,
			Quantity:    res.Quantity,
			RefTable:    res.RefTable,
			RefID:       res.RefID,
			Note:        "Reservierung verbraucht",
			CreatedBy:   res.CreatedBy,
			CreatedAt:   time.Now(),
		}
		if _, err := movRepo.Create(ctx, out); err != nil {
			return converted, fmt.Errorf("Abgang für Reservierung %d anhängen: %w", res.ID, err)
		}
		// Erst nach erfolgreichem Anhängen des OUT löschen.
		if _, err := movRepo.DeleteReservationByID(ctx, res.ID); err != nil {
			return converted, fmt.Errorf("Reservierung %d löschen: %w", res.ID, err)
		}
		converted++
	}
	if converted > 0 {
		s.log.Info().
			Str("ref_table", refTable).
			Int64("ref_id", refID).
			Int("converted", converted).
			Msg("Reservierungen in Abgänge umgewandelt")
	}
	return converted, nil
}

// ReleaseReservations gibt alle ausstehenden Reservierungen einer Referenz
// frei ("Angebot abgelehnt"); der Bestand wird wieder frei. Null Treffer sind
// Erfolg mit Anzahl 0; "schon verarbeitet" und "nie vorhanden" sind hier
// nicht unterscheidbar (bewusste Vereinfachung).
func (s *Service) ReleaseReservations(ctx context.Context, refTable string, refID, warehouseID int64) (int, error) {
	s.ensureBootstrap(ctx)
	return s.releaseWith(ctx, s.movements, refTable, refID, warehouseID)
}

// ReleaseReservationsTx ist die transaktionsgebundene Variante.
func (s *Service) ReleaseReservationsTx(ctx context.Context, movRepo repository.StockMovementRepository, refTable string, refID, warehouseID int64) (int, error) {
	return s.releaseWith(ctx, movRepo, refTable, refID, warehouseID)
}

func (s *Service) releaseWith(ctx context.Context, movRepo repository.StockMovementRepository, refTable string, refID, warehouseID int64) (int, error) {
	n, err := movRepo.DeleteReservations(ctx, refTable, refID, warehouseID)
	if err != nil {
		return 0, fmt.Errorf("Reservierungen freigeben: %w", err)
	}
	if n > 0 {
		s.log.Info().
			Str("ref_table", refTable).
			Int64("ref_id", refID).
			Int64("released", n).
			Msg("Reservierungen freigegeben")
	}
	return int(n), nil
}

// History liefert die Journalhistorie eines Artikels (neueste zuerst).
func (s *Service) History(ctx context.Context, productID, warehouseID int64, limit, offset int) ([]*entity.StockMovement, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	s.ensureBootstrap(ctx)
	return s.movements.ListByProduct(ctx, productID, warehouseID, limit, offset)
}
