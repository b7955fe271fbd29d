// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package expediente

import (
	"context"
	"fmt"
	"time"

	"github.com/kostasense/software-back-sub000/orchestrator/documents"
	"github.com/kostasense/software-back-sub000/shared/logger"
)

// Service generates and reads expedientes
type Service struct {
	users      Users
	activities Activities
	engine     Dispatcher
	querier    documents.Querier
	repo       Repository
	locker     Locker
	now        func() time.Time
	log        *logger.Logger
}

// Options configures optional collaborators of a Service
type Options struct {
	// Locker defaults to an in-process LocalLocker
	Locker Locker
	// Now defaults to time.Now
	Now    func() time.Time
	Logger *logger.Logger
}

// NewService creates an expediente service. querier runs the base context
// lookups; engine runs the document generators.
func NewService(users Users, activities Activities, engine Dispatcher, querier documents.Querier, repo Repository, opts Options) *Service {
	s := &Service{
		users:      users,
		activities: activities,
		engine:     engine,
		querier:    querier,
		repo:       repo,
		locker:     opts.Locker,
		now:        opts.Now,
		log:        opts.Logger,
	}
	if s.locker == nil {
		s.locker = NewLocalLocker()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.New("expediente")
	}
	return s
}

// Generate rebuilds the expediente of the professor behind userKey for the
// current year. Any previous expediente with the same key is deleted first;
// if generation then fails, none remains.
func (s *Service) Generate(ctx context.Context, userKey string) (exp *Expediente, err error) {
	if userKey == "" {
		return nil, ErrInvalidInput
	}
	reqID := logger.RequestID(ctx)
	start := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			result = "error"
		}
		generationRuns.WithLabelValues(result).Inc()
		generationDuration.Observe(time.Since(start).Seconds())
	}()

	user, err := s.users.LookupByKey(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("usuario %s", userKey)
	}
	if user.ProfessorKey == "" {
		return nil, notFound("usuario %s no tiene docente asociado", userKey)
	}

	year := s.now().Year()
	key := Key(user.ProfessorKey, year)

	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.repo.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to delete previous expediente %s: %w", key, err)
	}

	departments, err := s.activities.DepartmentsWithDocuments(ctx)
	if err != nil {
		return nil, err
	}

	exp = &Expediente{
		Key:          key,
		ProfessorKey: user.ProfessorKey,
		UserKey:      user.UserKey,
		Year:         year,
		Documents:    []Document{},
	}

	sub := documents.NewSubdireccionCache()
	for _, dept := range departments {
		records, err := s.generateDepartment(ctx, user.ProfessorKey, user.DisplayName, dept, year, sub)
		if err != nil {
			s.log.ErrorWithErr(dept, reqID, "Expediente generation aborted", err, map[string]interface{}{
				"expediente": key,
			})
			return nil, err
		}
		for _, rec := range records {
			position := len(exp.Documents)
			exp.Documents = append(exp.Documents, Document{
				ID:            DocumentID(key, rec.Code, position),
				Code:          rec.Code,
				DepartmentKey: dept,
				Position:      position,
				Record:        rec,
			})
		}
	}

	exp.GeneratedAt = s.now().UTC()
	if err := s.repo.Save(ctx, exp); err != nil {
		return nil, fmt.Errorf("failed to save expediente %s: %w", key, err)
	}

	for _, d := range exp.Documents {
		documentsGenerated.WithLabelValues(d.Code).Inc()
	}
	s.log.InfoWithDuration("", reqID, "Expediente generated", time.Since(start), map[string]interface{}{
		"expediente":  key,
		"departments": len(departments),
		"documents":   len(exp.Documents),
	})
	return exp, nil
}

// generateDepartment runs every applicable generator for one department.
// A department without codes contributes nothing.
func (s *Service) generateDepartment(ctx context.Context, professorKey, displayName, dept string, year int, sub *documents.SubdireccionCache) ([]documents.Record, error) {
	codes, err := s.activities.DocumentCodesForDepartment(ctx, dept)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, nil
	}
	departmentsVisited.Inc()

	bc, err := documents.BuildBaseContext(ctx, s.querier, dept, professorKey, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to build context for department %s: %w", dept, err)
	}

	keys := documents.Keys{ProfessorKey: professorKey, TenantKey: dept, Year: year, Subdireccion: sub}
	var out []documents.Record
	for _, code := range codes {
		records, err := s.engine.Generate(ctx, code, bc, keys)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}

	s.log.Debug(dept, logger.RequestID(ctx), "Department processed", map[string]interface{}{
		"codes":   len(codes),
		"records": len(out),
	})
	return out, nil
}

// Get returns the persisted expediente of professorKey for year
func (s *Service) Get(ctx context.Context, professorKey string, year int) (*Expediente, error) {
	if professorKey == "" || year <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.Get(ctx, Key(professorKey, year))
}

// Ping checks the repository
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
