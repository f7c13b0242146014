package posting

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appctx "milkledger/internal/core/context"
	"milkledger/internal/core/entity"
	"milkledger/internal/core/lock"
	"milkledger/internal/core/tx"
	"milkledger/internal/core/types"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/domain/registers/stock"
	"milkledger/pkg/logger"
)

var tracer = otel.Tracer("milkledger/posting")

// Result reports what a transition wrote.
type Result struct {
	Entries   []milkquality.LedgerEntry `json:"entries,omitempty"`
	Cancelled int                       `json:"cancelled"`
}

// Engine runs document submissions and cancellations.
type Engine struct {
	txManager tx.Manager
	stock     *stock.Service
	ledger    *milkquality.Service
	locker    lock.Locker
	clock     types.Clock
}

// NewEngine creates a posting engine.
func NewEngine(txManager tx.Manager, stockSvc *stock.Service, ledger *milkquality.Service, locker lock.Locker, clock types.Clock) *Engine {
	return &Engine{
		txManager: txManager,
		stock:     stockSvc,
		ledger:    ledger,
		locker:    locker,
		clock:     clock,
	}
}

// Clock returns the clock transitions are stamped with.
func (e *Engine) Clock() types.Clock {
	return e.clock
}

func (e *Engine) span(ctx context.Context, op string, doc Postable) (context.Context, trace.Span) {
	return tracer.Start(ctx, "posting."+op, trace.WithAttributes(
		attribute.String("voucher.type", doc.VoucherType()),
		attribute.String("voucher.no", doc.VoucherNo()),
	))
}

// Submit moves doc from Draft to Submitted. Stock movements are recorded
// before ledger entries so balance-after reads include this document.
// save persists the document inside the same transaction.
func (e *Engine) Submit(ctx context.Context, doc Postable, save func(ctx context.Context) error) (*Result, error) {
	ctx, span := e.span(ctx, "submit", doc)
	defer span.End()

	now := e.clock.Now()
	actor := appctx.GetActor(ctx)

	if err := doc.CanPost(ctx); err != nil {
		return nil, err
	}
	postingAt, err := doc.ResolvePostingTime(now)
	if err != nil {
		return nil, err
	}
	set, err := doc.GenerateMovements(ctx, postingAt, now)
	if err != nil {
		return nil, err
	}

	release, err := e.locker.Acquire(ctx, set.LockKeys())
	if err != nil {
		return nil, err
	}
	defer release()

	result := &Result{}
	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.stock.RecordMovements(ctx, set.Stock); err != nil {
			return err
		}

		date, clock := doc.Posting()
		entries, err := e.ledger.Post(ctx, milkquality.Voucher{
			Type:        doc.VoucherType(),
			No:          doc.VoucherNo(),
			PostingDate: date,
			PostingTime: clock,
		}, set.Ledger, actor, now)
		if err != nil {
			return err
		}
		result.Entries = entries

		if err := doc.Transition(entity.StatusSubmitted, now, actor); err != nil {
			return err
		}
		if err := save(ctx); err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("ledger.entries", len(result.Entries)))
	logger.Info(ctx, "document submitted",
		"voucher_type", doc.VoucherType(),
		"voucher_no", doc.VoucherNo(),
		"stock_movements", len(set.Stock),
		"ledger_entries", len(result.Entries),
	)
	return result, nil
}

// Cancel moves doc from Submitted to Cancelled, reversing its stock
// movements and cancelling its ledger entries. Cancelling an already
// cancelled document is a no-op.
func (e *Engine) Cancel(ctx context.Context, doc Postable, save func(ctx context.Context) error) (*Result, error) {
	ctx, span := e.span(ctx, "cancel", doc)
	defer span.End()

	if doc.GetStatus() == entity.StatusCancelled {
		logger.Debug(ctx, "document already cancelled", "voucher_no", doc.VoucherNo())
		return &Result{}, nil
	}

	now := e.clock.Now()
	actor := appctx.GetActor(ctx)

	date, clock := doc.Posting()
	postingAt, err := types.CombineDateTime(date, clock)
	if err != nil {
		return nil, err
	}
	set, err := doc.GenerateMovements(ctx, postingAt, now)
	if err != nil {
		return nil, err
	}

	release, err := e.locker.Acquire(ctx, set.LockKeys())
	if err != nil {
		return nil, err
	}
	defer release()

	result := &Result{}
	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := doc.Transition(entity.StatusCancelled, now, actor); err != nil {
			return err
		}
		if err := e.stock.ReverseMovements(ctx, doc.GetID()); err != nil {
			return err
		}
		n, err := e.ledger.CancelByVoucher(ctx, doc.VoucherType(), doc.VoucherNo(), actor, now)
		if err != nil {
			return err
		}
		result.Cancelled = n
		if err := save(ctx); err != nil {
			return fmt.Errorf("save document: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.Info(ctx, "document cancelled",
		"voucher_type", doc.VoucherType(),
		"voucher_no", doc.VoucherNo(),
		"ledger_entries", result.Cancelled,
	)
	return result, nil
}
