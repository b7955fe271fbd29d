// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package requirements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kostasense/software-back-sub000/connectors/base"
	"github.com/kostasense/software-back-sub000/orchestrator/documents"
	"github.com/kostasense/software-back-sub000/shared/logger"
)

var (
	validationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_requirements_runs_total",
			Help: "Requirement validations by result",
		},
		[]string{"result"},
	)
	slotOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_requirements_slot_outcomes_total",
			Help: "Rule slot outcomes: satisfied, unsatisfied, not_applicable or skipped",
		},
		[]string{"slot", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(validationRuns, slotOutcomes)
}

// Options tunes the rule thresholds
type Options struct {
	// MinScore is the minimum passing evaluation score (default 70)
	MinScore float64
	// MinTeachingHours is the weekly load required in each term (default 16)
	MinTeachingHours float64
	// InvestigatorPattern is matched case-insensitively against the
	// professor category (default "investigador")
	InvestigatorPattern string

	Now    func() time.Time
	Logger *logger.Logger
}

func (o *Options) applyDefaults() {
	if o.MinScore == 0 {
		o.MinScore = 70
	}
	if o.MinTeachingHours == 0 {
		o.MinTeachingHours = 16
	}
	if o.InvestigatorPattern == "" {
		o.InvestigatorPattern = "investigador"
	}
	o.InvestigatorPattern = strings.ToLower(o.InvestigatorPattern)
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = logger.New("requirements")
	}
}

// Service validates professor requirements
type Service struct {
	users      Users
	activities Activities
	q          documents.Querier
	rules      []Rule
	opts       Options
}

// NewService creates a validation service over the default rule table
func NewService(users Users, activities Activities, q documents.Querier, opts Options) *Service {
	opts.applyDefaults()
	return &Service{
		users:      users,
		activities: activities,
		q:          q,
		rules:      defaultRules(),
		opts:       opts,
	}
}

// Validate builds the checklist of the professor behind userKey for the
// previous calendar year. A slot whose department cannot be resolved is
// left out. Any query failure aborts the validation.
func (s *Service) Validate(ctx context.Context, userKey string) (cl *Checklist, err error) {
	defer func() {
		result := "success"
		if err != nil {
			result = "error"
		}
		validationRuns.WithLabelValues(result).Inc()
	}()

	user, err := s.users.LookupByKey(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ProfessorKey == "" {
		return nil, fmt.Errorf("%w: usuario %s no tiene docente asociado", base.ErrNotFound, userKey)
	}

	year := s.opts.Now().Year() - 1
	cl = &Checklist{
		UserKey:        user.UserKey,
		ProfessorKey:   user.ProfessorKey,
		ProfessorName:  user.DisplayName,
		DepartmentKey:  user.DepartmentKey,
		EvaluationYear: year,
		Requirements:   []Requirement{},
	}

	if user.DepartmentKey != "" {
		bc, err := documents.BuildBaseContext(ctx, s.q, user.DepartmentKey, user.ProfessorKey, user.DisplayName)
		if err != nil {
			return nil, fmt.Errorf("failed to build context for department %s: %w", user.DepartmentKey, err)
		}
		cl.ProfessorName = bc.ProfessorName
		cl.DepartmentName = bc.DepartmentName
		cl.DepartmentHead = bc.DepartmentHead
	}

	r := &run{q: s.q, activities: s.activities, user: user, year: year, opts: s.opts}
	reqID := logger.RequestID(ctx)

	for _, rule := range s.rules {
		dept, ok, err := rule.Target(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", rule.Slot, err)
		}
		if !ok {
			slotOutcomes.WithLabelValues(rule.Slot, "skipped").Inc()
			s.opts.Logger.Debug("", reqID, "Requirement slot skipped", map[string]interface{}{
				"slot":      rule.Slot,
				"professor": user.ProfessorKey,
			})
			continue
		}

		reqs, err := rule.Check(ctx, r, dept)
		if err != nil {
			s.opts.Logger.ErrorWithErr(dept, reqID, "Requirement validation aborted", err, map[string]interface{}{
				"slot": rule.Slot,
			})
			return nil, fmt.Errorf("check %s: %w", rule.Slot, err)
		}
		for _, req := range reqs {
			req.Slot = rule.Slot
			req.DepartmentKey = dept
			slotOutcomes.WithLabelValues(rule.Slot, outcome(req)).Inc()
			cl.Requirements = append(cl.Requirements, req)
		}
	}

	s.opts.Logger.Info(user.DepartmentKey, reqID, "Requirements validated", map[string]interface{}{
		"professor":    user.ProfessorKey,
		"year":         year,
		"requirements": len(cl.Requirements),
		"satisfied":    cl.Satisfied(),
	})
	return cl, nil
}

func outcome(r Requirement) string {
	switch {
	case r.NotApplicable:
		return "not_applicable"
	case r.Satisfied:
		return "satisfied"
	default:
		return "unsatisfied"
	}
}
