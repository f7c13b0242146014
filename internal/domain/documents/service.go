package documents

import (
	"context"
	"fmt"

	"milkledger/internal/core/apperror"
	appctx "milkledger/internal/core/context"
	"milkledger/internal/core/entity"
	"milkledger/internal/core/numerator"
	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
	"milkledger/internal/domain/posting"
	"milkledger/pkg/logger"
)

// Doc is what the lifecycle needs from a concrete document type.
type Doc interface {
	posting.Postable
	entity.Validatable
	Base() *entity.Document
}

// Service drives a document kind through Draft -> Submitted -> Cancelled.
type Service[T Doc] struct {
	repo          Repository[T]
	postingEngine *posting.Engine
	numerator     numerator.Generator
	txManager     tx.Manager
	audit         AuditLog
	hooks         *domain.HookRegistry[T]

	prefix     string
	entityName string
}

// Config wires a document service.
type Config[T Doc] struct {
	Repo          Repository[T]
	PostingEngine *posting.Engine
	Numerator     numerator.Generator
	TxManager     tx.Manager

	// Audit is optional.
	Audit AuditLog

	// Prefix is the numbering prefix (PR, QI, SE).
	Prefix     string
	EntityName string
}

// NewService creates a document lifecycle service.
func NewService[T Doc](cfg Config[T]) *Service[T] {
	return &Service[T]{
		repo:          cfg.Repo,
		postingEngine: cfg.PostingEngine,
		numerator:     cfg.Numerator,
		txManager:     cfg.TxManager,
		audit:         cfg.Audit,
		hooks:         domain.NewHookRegistry[T](),
		prefix:        cfg.Prefix,
		entityName:    cfg.EntityName,
	}
}

// SetAudit attaches an audit trail; nil disables it.
func (s *Service[T]) SetAudit(log AuditLog) {
	s.audit = log
}

// Hooks returns the lifecycle hook registry of this document kind.
func (s *Service[T]) Hooks() *domain.HookRegistry[T] {
	return s.hooks
}

func (s *Service[T]) record(ctx context.Context, doc T, action AuditAction) error {
	if s.audit == nil {
		return nil
	}
	rec, err := newAuditRecord(doc, action, appctx.GetActor(ctx), s.postingEngine.Clock().Now())
	if err != nil {
		return err
	}
	if err := s.audit.Record(ctx, rec); err != nil {
		return fmt.Errorf("audit %s %s: %w", action, rec.VoucherNo, err)
	}
	return nil
}

// History returns the audit trail of a document, newest first.
func (s *Service[T]) History(ctx context.Context, name string, limit int) ([]AuditRecord, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []AuditRecord{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.audit.History(ctx, doc.VoucherType(), name, limit)
}

func (s *Service[T]) validate(ctx context.Context, doc T) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	return s.hooks.Run(ctx, domain.OnValidate, doc)
}

// Create validates and stores a new draft, assigning its name.
func (s *Service[T]) Create(ctx context.Context, doc T) error {
	now := s.postingEngine.Clock().Now()
	base := doc.Base()
	base.Init(now, appctx.GetActor(ctx))

	if err := s.validate(ctx, doc); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if base.Name == "" {
			name, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(s.prefix), base.PostingDate)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			base.SetName(name)
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return s.record(ctx, doc, AuditCreate)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, s.entityName+" created", "name", base.Name)
	return nil
}

// Get retrieves a document with its lines.
func (s *Service[T]) Get(ctx context.Context, name string) (T, error) {
	doc, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return doc, apperror.NewNotFound(s.entityName, name)
		}
		return doc, err
	}
	return doc, nil
}

// Update replaces a draft. Submitted and cancelled documents are immutable.
func (s *Service[T]) Update(ctx context.Context, doc T) error {
	current, err := s.Get(ctx, doc.VoucherNo())
	if err != nil {
		return err
	}
	if err := current.Base().CanModify(); err != nil {
		return err
	}

	base := doc.Base()
	cur := current.Base()
	base.ID, base.Status = cur.ID, cur.Status
	base.CreatedAt, base.CreatedBy = cur.CreatedAt, cur.CreatedBy
	if base.Version == 0 {
		base.Version = cur.Version
	}
	base.Stamp(s.postingEngine.Clock().Now(), appctx.GetActor(ctx))

	if err := s.validate(ctx, doc); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		return s.record(ctx, doc, AuditUpdate)
	})
}

// Delete removes a draft.
func (s *Service[T]) Delete(ctx context.Context, name string) error {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := doc.Base().CanModify(); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, name); err != nil {
			return err
		}
		return s.record(ctx, doc, AuditDelete)
	})
}

// Submit re-validates the draft, then records its stock movements and ledger
// entries and marks it Submitted, all or nothing.
func (s *Service[T]) Submit(ctx context.Context, name string) (T, *posting.Result, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return doc, nil, err
	}
	if err := s.validate(ctx, doc); err != nil {
		return doc, nil, err
	}
	if err := s.hooks.Run(ctx, domain.BeforeSubmit, doc); err != nil {
		return doc, nil, err
	}

	result, err := s.postingEngine.Submit(ctx, doc, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		return s.record(ctx, doc, AuditSubmit)
	})
	if err != nil {
		return doc, nil, err
	}

	if err := s.hooks.Run(ctx, domain.AfterSubmit, doc); err != nil {
		logger.Warn(ctx, "after-submit hook failed", "name", name, "error", err)
	}
	return doc, result, nil
}

// Cancel reverses a submitted document. Cancelling twice is a no-op.
func (s *Service[T]) Cancel(ctx context.Context, name string) (T, *posting.Result, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return doc, nil, err
	}
	if doc.GetStatus() == entity.StatusCancelled {
		return doc, &posting.Result{}, nil
	}
	if err := s.hooks.Run(ctx, domain.BeforeCancel, doc); err != nil {
		return doc, nil, err
	}

	result, err := s.postingEngine.Cancel(ctx, doc, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		return s.record(ctx, doc, AuditCancel)
	})
	if err != nil {
		return doc, nil, err
	}

	if err := s.hooks.Run(ctx, domain.AfterCancel, doc); err != nil {
		logger.Warn(ctx, "after-cancel hook failed", "name", name, "error", err)
	}
	return doc, result, nil
}

// List retrieves documents with filtering.
func (s *Service[T]) List(ctx context.Context, filter ListFilter) (domain.ListResult[T], error) {
	return s.repo.List(ctx, filter)
}
