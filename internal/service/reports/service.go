// Package reports orchestrates report creation: persisting inputs, deriving
// reconciliation figures and queueing Telegram delivery.
package reports

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"reportbot/internal/domain/models"
	"reportbot/internal/repository/postgres"
	"reportbot/internal/service/notify"
	"reportbot/internal/service/reconcile"
	"reportbot/internal/service/storage"
	"reportbot/pkg/clients/telegram"
)

// MissingItemsError reports which referenced catalog items do not exist or
// are inactive. The full list comes back in one response so the mini-app can
// highlight every stale row at once.
type MissingItemsError struct {
	IDs []int64
}

func (e *MissingItemsError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "unknown or inactive inventory items: " + strings.Join(parts, ", ")
}

// missingItemIDs returns the deduplicated, sorted ids from requested that are
// not in active.
func missingItemIDs(requested, active []int64) []int64 {
	activeSet := make(map[int64]bool, len(active))
	for _, id := range active {
		activeSet[id] = true
	}

	var missing []int64
	seen := map[int64]bool{}
	for _, id := range requested {
		if !activeSet[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// ErrEmptyAct is returned when a write-off/transfer act has neither list.
var ErrEmptyAct = fmt.Errorf("at least one writeoff or transfer item is required")

// Service wires the stores, the file service, the calculator and the delivery
// queue into the creation flows the handlers call.
type Service struct {
	shifts      *postgres.ShiftReports
	inventories *postgres.DailyInventories
	items       *postgres.InventoryItems
	goods       *postgres.GoodsReports
	acts        *postgres.WriteoffTransfers

	files      *storage.FileService
	worker     *notify.Worker
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
}

// NewService creates the orchestration service.
func NewService(
	shifts *postgres.ShiftReports,
	inventories *postgres.DailyInventories,
	items *postgres.InventoryItems,
	goods *postgres.GoodsReports,
	acts *postgres.WriteoffTransfers,
	files *storage.FileService,
	worker *notify.Worker,
	dispatcher *notify.Dispatcher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		shifts:      shifts,
		inventories: inventories,
		items:       items,
		goods:       goods,
		acts:        acts,
		files:       files,
		worker:      worker,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// CreateShiftReport saves the photo, derives the reconciliation figures,
// persists the report as a draft and queues delivery. The photo is saved
// first so a report row never references a file that was never written; if
// the insert fails the file is removed again.
func (s *Service) CreateShiftReport(ctx context.Context, cmd models.CreateShiftReport, photo *multipart.FileHeader) (*models.ShiftReport, error) {
	photoPath, err := s.files.SaveShiftReportPhoto(photo)
	if err != nil {
		return nil, err
	}

	result := reconcile.Calculate(reconcile.Input{
		TotalRevenue:       cmd.TotalRevenue,
		Returns:            cmd.Returns,
		IncomeEntries:      cmd.IncomeEntries,
		ExpenseEntries:     cmd.ExpenseEntries,
		Acquiring:          cmd.Acquiring,
		QRCode:             cmd.QRCode,
		OnlineApp:          cmd.OnlineApp,
		YandexFood:         cmd.YandexFood,
		YandexFoodNoSystem: cmd.YandexFoodNoSystem,
		Primehill:          cmd.Primehill,
		FactCash:           cmd.FactCash,
	})

	report := &models.ShiftReport{
		Location:           cmd.Location,
		ShiftType:          cmd.ShiftType,
		CashierName:        cmd.CashierName,
		Date:               time.Now().UTC(),
		IncomeEntries:      cmd.IncomeEntries,
		ExpenseEntries:     cmd.ExpenseEntries,
		TotalRevenue:       cmd.TotalRevenue,
		Returns:            cmd.Returns,
		Acquiring:          cmd.Acquiring,
		QRCode:             cmd.QRCode,
		OnlineApp:          cmd.OnlineApp,
		YandexFood:         cmd.YandexFood,
		YandexFoodNoSystem: cmd.YandexFoodNoSystem,
		Primehill:          cmd.Primehill,
		FactCash:           cmd.FactCash,
		TotalIncome:        result.TotalIncome,
		TotalExpenses:      result.TotalExpenses,
		TotalAcquiring:     result.TotalAcquiring,
		CalculatedAmount:   result.CalculatedAmount,
		SurplusShortage:    result.SurplusShortage,
		PhotoPath:          photoPath,
		Comments:           cmd.Comments,
		Status:             models.StatusDraft,
	}

	if err := s.shifts.Create(ctx, report); err != nil {
		if cleanupErr := s.files.Delete(photoPath); cleanupErr != nil {
			s.logger.Warn("orphaned photo cleanup failed",
				zap.String("path", photoPath), zap.Error(cleanupErr))
		}
		return nil, err
	}

	s.worker.Enqueue(notify.Job{Kind: notify.JobShiftReport, ReportID: report.ID})
	return report, nil
}

// CreateDailyInventory validates every referenced catalog item, persists the
// count and queues delivery. Validation is wholesale: one stale id rejects
// the whole submission, and the error carries every offending id.
func (s *Service) CreateDailyInventory(ctx context.Context, cmd models.CreateDailyInventory) (*models.DailyInventory, error) {
	ids := make([]int64, 0, len(cmd.Entries))
	for _, entry := range cmd.Entries {
		ids = append(ids, entry.ItemID)
	}

	active, err := s.items.FindActiveIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if missing := missingItemIDs(ids, active); len(missing) > 0 {
		return nil, &MissingItemsError{IDs: missing}
	}

	inventory := &models.DailyInventory{
		Location:    cmd.Location,
		ShiftType:   cmd.ShiftType,
		CashierName: cmd.CashierName,
		Date:        time.Now().UTC(),
		Entries:     cmd.Entries,
	}
	if cmd.Date != nil {
		inventory.Date = *cmd.Date
	}

	if err := s.inventories.Create(ctx, inventory); err != nil {
		return nil, err
	}

	s.worker.Enqueue(notify.Job{Kind: notify.JobDailyInventory, ReportID: inventory.ID})
	return inventory, nil
}

// CreateGoodsReport persists a goods delivery and queues it together with its
// in-memory photos, which are relayed to Telegram but never stored.
func (s *Service) CreateGoodsReport(ctx context.Context, cmd models.CreateGoodsReport, photos []telegram.AlbumPhoto) (*models.GoodsReport, error) {
	report := &models.GoodsReport{
		Location:    cmd.Location,
		ShiftType:   cmd.ShiftType,
		CashierName: cmd.CashierName,
		Date:        time.Now().UTC(),
		Kitchen:     cmd.Kitchen,
		Bar:         cmd.Bar,
		Packaging:   cmd.Packaging,
	}

	if err := s.goods.Create(ctx, report); err != nil {
		return nil, err
	}

	s.worker.Enqueue(notify.Job{Kind: notify.JobGoodsReport, ReportID: report.ID, Photos: photos})
	return report, nil
}

// CreateWriteoffTransfer persists an act and queues delivery. An act with
// neither write-offs nor transfers is rejected before touching the database.
func (s *Service) CreateWriteoffTransfer(ctx context.Context, cmd models.CreateWriteoffTransfer) (*models.WriteoffTransfer, error) {
	if len(cmd.Writeoffs) == 0 && len(cmd.Transfers) == 0 {
		return nil, ErrEmptyAct
	}

	act := &models.WriteoffTransfer{
		Location:    cmd.Location,
		ShiftType:   cmd.ShiftType,
		CashierName: cmd.CashierName,
		ReportDate:  cmd.ReportDate,
		Writeoffs:   cmd.Writeoffs,
		Transfers:   cmd.Transfers,
	}

	if err := s.acts.Create(ctx, act); err != nil {
		return nil, err
	}

	s.worker.Enqueue(notify.Job{Kind: notify.JobWriteoffTransfer, ReportID: act.ID})
	return act, nil
}

// SendLoosePhotos relays photos submitted outside a report straight to the
// location's topic, synchronously under the request context.
func (s *Service) SendLoosePhotos(ctx context.Context, location, message string, photos []telegram.AlbumPhoto) bool {
	if message == "" {
		message = notify.FormatLoosePhotos(location)
	}
	return s.dispatcher.SendAlbum(ctx, location, message, photos)
}
