package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos 绑定到同一个连接或事务的仓储集合
type Repos struct {
	Bindings BindingRepo
	Pending  PendingRepo
	Events   EventRepo
}

func NewRepos(db *gorm.DB) *Repos {
	return &Repos{
		Bindings: NewBindingRepo(db),
		Pending:  NewPendingRepo(db),
		Events:   NewEventRepo(db),
	}
}

type UnitOfWork interface {
	// Transaction fn 返回错误时整体回滚
	Transaction(ctx context.Context, fn func(repos *Repos) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (s *gormUnitOfWork) Transaction(ctx context.Context, fn func(repos *Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
