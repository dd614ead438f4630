package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"reportbot/internal/domain/models"
	"reportbot/pkg/clients/telegram"
)

// JobKind names the report type a delivery job refers to.
type JobKind string

const (
	JobShiftReport      JobKind = "shift_report"
	JobDailyInventory   JobKind = "daily_inventory"
	JobGoodsReport      JobKind = "goods_report"
	JobWriteoffTransfer JobKind = "writeoff_transfer"
)

// Job is one queued delivery. The report is re-read by id when the job runs,
// so the queue never holds stale row data. Photos ride along only for goods
// reports, whose attachments are never persisted.
type Job struct {
	Kind     JobKind
	ReportID int64
	Photos   []telegram.AlbumPhoto
}

// jobTimeout bounds one complete delivery attempt, read included.
const jobTimeout = 30 * time.Second

// Sender is the dispatcher surface the worker needs. Narrowed for tests.
type Sender interface {
	SendText(ctx context.Context, location, text string) bool
	SendPhoto(ctx context.Context, location, caption, photoPath string) bool
	SendAlbum(ctx context.Context, location, caption string, photos []telegram.AlbumPhoto) bool
}

// ShiftReportSource reads shift reports and records confirmed deliveries.
type ShiftReportSource interface {
	GetByID(ctx context.Context, id int64) (*models.ShiftReport, error)
	MarkSent(ctx context.Context, id int64) error
}

// InventorySource reads catalog-resolved inventories.
type InventorySource interface {
	GetDetailed(ctx context.Context, id int64) (*models.DetailedInventory, error)
}

// GoodsSource reads goods reports.
type GoodsSource interface {
	GetByID(ctx context.Context, id int64) (*models.GoodsReport, error)
}

// ActSource reads write-off/transfer acts.
type ActSource interface {
	GetByID(ctx context.Context, id int64) (*models.WriteoffTransfer, error)
}

// Worker drains the delivery queue with a fixed pool of goroutines. Failures
// are logged and swallowed; a job is attempted exactly once.
type Worker struct {
	queue   chan Job
	workers int

	sender      Sender
	shifts      ShiftReportSource
	inventories InventorySource
	goods       GoodsSource
	acts        ActSource

	// photoPath maps a stored photo reference to a readable file path.
	photoPath func(string) string

	logger *zap.Logger
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWorker builds a worker over the given sources. photoPath maps stored
// photo references to on-disk paths; queueSize bounds how many deliveries may
// be pending; workers is the consumer pool size.
func NewWorker(
	sender Sender,
	shifts ShiftReportSource,
	inventories InventorySource,
	goods GoodsSource,
	acts ActSource,
	photoPath func(string) string,
	queueSize, workers int,
	logger *zap.Logger,
) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if photoPath == nil {
		photoPath = func(p string) string { return p }
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 2
	}

	return &Worker{
		queue:       make(chan Job, queueSize),
		workers:     workers,
		sender:      sender,
		shifts:      shifts,
		inventories: inventories,
		goods:       goods,
		acts:        acts,
		photoPath:   photoPath,
		logger:      logger,
	}
}

// Start launches the consumer pool. It returns immediately.
func (w *Worker) Start() {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for job := range w.queue {
				w.run(job)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to finish. Pending jobs
// still in the queue are drained before Stop returns.
func (w *Worker) Stop() {
	w.once.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
}

// Enqueue adds a delivery without ever blocking the request path. A full
// queue drops the job with a log line; the report stays persisted either way.
func (w *Worker) Enqueue(job Job) {
	select {
	case w.queue <- job:
	default:
		w.logger.Warn("delivery queue full, dropping job",
			zap.String("kind", string(job.Kind)), zap.Int64("report_id", job.ReportID))
	}
}

// run executes one job under its own deadline.
func (w *Worker) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	switch job.Kind {
	case JobShiftReport:
		w.deliverShiftReport(ctx, job.ReportID)
	case JobDailyInventory:
		w.deliverInventory(ctx, job.ReportID)
	case JobGoodsReport:
		w.deliverGoodsReport(ctx, job.ReportID, job.Photos)
	case JobWriteoffTransfer:
		w.deliverAct(ctx, job.ReportID)
	default:
		w.logger.Error("unknown delivery job kind", zap.String("kind", string(job.Kind)))
	}
}

func (w *Worker) deliverShiftReport(ctx context.Context, id int64) {
	report, err := w.shifts.GetByID(ctx, id)
	if err != nil {
		w.logger.Error("shift report delivery read failed", zap.Int64("report_id", id), zap.Error(err))
		return
	}

	caption := FormatShiftReport(report)
	if !w.sender.SendPhoto(ctx, report.Location, caption, w.photoPath(report.PhotoPath)) {
		w.logger.Warn("shift report stays draft, delivery unconfirmed", zap.Int64("report_id", id))
		return
	}

	if err := w.shifts.MarkSent(ctx, id); err != nil {
		// Delivered but not recorded; the next restart will not resend because
		// jobs are enqueued only at creation.
		w.logger.Error("shift report delivered but status update failed",
			zap.Int64("report_id", id), zap.Error(err))
		return
	}

	w.logger.Info("shift report delivered", zap.Int64("report_id", id),
		zap.String("location", report.Location))
}

func (w *Worker) deliverInventory(ctx context.Context, id int64) {
	inventory, err := w.inventories.GetDetailed(ctx, id)
	if err != nil {
		w.logger.Error("inventory delivery read failed", zap.Int64("report_id", id), zap.Error(err))
		return
	}

	if !w.sender.SendText(ctx, inventory.Location, FormatDailyInventory(inventory)) {
		w.logger.Warn("inventory delivery unconfirmed", zap.Int64("report_id", id))
		return
	}

	w.logger.Info("inventory delivered", zap.Int64("report_id", id),
		zap.String("location", inventory.Location))
}

func (w *Worker) deliverGoodsReport(ctx context.Context, id int64, photos []telegram.AlbumPhoto) {
	report, err := w.goods.GetByID(ctx, id)
	if err != nil {
		w.logger.Error("goods report delivery read failed", zap.Int64("report_id", id), zap.Error(err))
		return
	}

	caption := FormatGoodsReport(report)
	var ok bool
	if len(photos) > 0 {
		ok = w.sender.SendAlbum(ctx, report.Location, caption, photos)
	} else {
		ok = w.sender.SendText(ctx, report.Location, caption)
	}
	if !ok {
		w.logger.Warn("goods report delivery unconfirmed", zap.Int64("report_id", id))
		return
	}

	w.logger.Info("goods report delivered", zap.Int64("report_id", id),
		zap.String("location", report.Location))
}

func (w *Worker) deliverAct(ctx context.Context, id int64) {
	act, err := w.acts.GetByID(ctx, id)
	if err != nil {
		w.logger.Error("act delivery read failed", zap.Int64("report_id", id), zap.Error(err))
		return
	}

	if !w.sender.SendText(ctx, act.Location, FormatWriteoffTransfer(act)) {
		w.logger.Warn("act delivery unconfirmed", zap.Int64("report_id", id))
		return
	}

	w.logger.Info("act delivered", zap.Int64("report_id", id), zap.String("location", act.Location))
}
