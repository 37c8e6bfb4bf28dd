package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inhousecost/backend/internal/metrics"
	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/report"
	"github.com/inhousecost/backend/internal/repository"
	"github.com/inhousecost/backend/pkg/mailer"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// blockedEmailDomains are free-mail providers rejected as non-business addresses.
var blockedEmailDomains = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"icloud.com":     true,
	"aol.com":        true,
	"protonmail.com": true,
	"gmx.com":        true,
	"zoho.com":       true,
}

// LeadSubmission is a calculator form posted together with contact details.
type LeadSubmission struct {
	CompanyName string
	Email       string
	EstimateInput
}

// LeadUsers is the admin view of leads grouped by email.
type LeadUsers struct {
	Users            []*model.LeadUser
	TotalAssessments int
}

// LeadService captures leads and serves the admin lead screens.
type LeadService interface {
	// Submit persists a lead snapshot and then tries to email the report.
	// A failed email is logged and reflected in lead.EmailSent only.
	Submit(ctx context.Context, sub LeadSubmission) (*model.Lead, error)
	List(ctx context.Context) ([]*model.Lead, error)
	Users(ctx context.Context) (*LeadUsers, error)
	// DeleteUser removes every lead sharing the email of lead id.
	DeleteUser(ctx context.Context, id string) (int, error)
}

// LeadServiceConfig carries the optional collaborators of the lead service.
type LeadServiceConfig struct {
	// Mailer nil disables email delivery.
	Mailer     mailer.Sender
	Metrics    *metrics.Metrics
	ContactURL string
	Now        func() time.Time
}

type leadServiceImpl struct {
	repo      repository.LeadRepository
	estimates EstimateService
	cfg       LeadServiceConfig
}

// NewLeadService creates a LeadService. A nil cfg.Now defaults to time.Now.
func NewLeadService(repo repository.LeadRepository, estimates EstimateService, cfg LeadServiceConfig) LeadService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &leadServiceImpl{repo: repo, estimates: estimates, cfg: cfg}
}

// ValidateBusinessEmail checks the address format and rejects free-mail domains.
func ValidateBusinessEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return invalid("invalid_email", "Invalid email format")
	}
	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	if blockedEmailDomains[domain] {
		return invalid("business_email_required", "Please use your business email address")
	}
	return nil
}

func (s *leadServiceImpl) Submit(ctx context.Context, sub LeadSubmission) (*model.Lead, error) {
	company := strings.TrimSpace(sub.CompanyName)
	email := strings.TrimSpace(sub.Email)
	if company == "" || email == "" {
		return nil, invalid("missing_required_fields", "Company name and email are required")
	}
	if err := ValidateBusinessEmail(email); err != nil {
		return nil, err
	}

	est, err := s.estimates.Estimate(ctx, sub.EstimateInput)
	if err != nil {
		return nil, err
	}

	lead := &model.Lead{
		ID:                      uuid.NewString(),
		CompanyName:             company,
		Email:                   email,
		State:                   strings.TrimSpace(sub.State),
		BaseSalary:              sub.BaseMonthlySalary,
		FTECount:                sub.FTECount,
		RoleCategoryID:          est.RoleCategoryID,
		RoleCategoryName:        est.RoleCategoryName,
		TotalEmployerLoad:       est.Totals.TotalEmployerLoadPct,
		EmployerExtras:          est.Totals.EmployerExtrasMonthlyAllFTEs,
		InHouseTotalCost:        est.Totals.InHouseMonthlyAllFTEs,
		LSGCost:                 est.Savings.ProviderMonthlyCost,
		AnnualSavingsPercentage: est.Savings.SavingsPercentage,
		Inclusions:              est.Inclusions,
		CostBreakdown:           model.NewCostBreakdown(est.Inclusions),
		CreatedAt:               s.cfg.Now().UTC(),
	}
	err = s.repo.Create(ctx, lead)
	if errors.Is(err, repository.ErrReferenceMissing) && lead.RoleCategoryID != nil {
		// Category deleted since the estimate; keep its name as a delete would.
		slog.Warn("role category vanished before lead insert", "role_category_id", *lead.RoleCategoryID)
		lead.RoleCategoryID = nil
		err = s.repo.Create(ctx, lead)
	}
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	s.cfg.Metrics.LeadSubmitted()

	s.sendReport(ctx, lead, est)
	return lead, nil
}

// sendReport emails the analysis and records the delivery on the lead.
func (s *leadServiceImpl) sendReport(ctx context.Context, lead *model.Lead, est *Estimate) {
	if s.cfg.Mailer == nil {
		s.cfg.Metrics.LeadEmail(metrics.EmailSkipped)
		return
	}

	rendered, err := report.Render(report.LeadReport{
		CompanyName:       lead.CompanyName,
		State:             est.State,
		RoleName:          lead.RoleCategoryName,
		BaseMonthlySalary: lead.BaseSalary,
		FTECount:          lead.FTECount,
		InHouseMonthly:    lead.InHouseTotalCost,
		ProviderMonthly:   lead.LSGCost,
		AnnualSavings:     est.Savings.AnnualSavings,
		SavingsPercentage: lead.AnnualSavingsPercentage,
		Inclusions:        lead.Inclusions,
		ContactURL:        s.cfg.ContactURL,
	})
	if err != nil {
		slog.Error("render lead report failed", "error", err, "lead_id", lead.ID)
		s.cfg.Metrics.LeadEmail(metrics.EmailFailed)
		return
	}

	err = s.cfg.Mailer.Send(ctx, mailer.Message{
		ToEmail: lead.Email,
		ToName:  lead.CompanyName,
		Subject: rendered.Subject,
		Text:    rendered.Text,
		HTML:    rendered.HTML,
	})
	if err != nil {
		slog.Warn("lead email failed", "error", err, "lead_id", lead.ID)
		s.cfg.Metrics.LeadEmail(metrics.EmailFailed)
		return
	}
	s.cfg.Metrics.LeadEmail(metrics.EmailSent)

	sentAt := s.cfg.Now().UTC()
	if err := s.repo.MarkEmailSent(ctx, lead.ID, sentAt); err != nil {
		slog.Error("mark lead email sent failed", "error", err, "lead_id", lead.ID)
		return
	}
	lead.EmailSent = true
	lead.EmailSentAt = &sentAt
}

func (s *leadServiceImpl) List(ctx context.Context) ([]*model.Lead, error) {
	return s.repo.List(ctx)
}

func (s *leadServiceImpl) Users(ctx context.Context) (*LeadUsers, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &LeadUsers{Users: model.GroupLeadsByEmail(leads), TotalAssessments: len(leads)}, nil
}

func (s *leadServiceImpl) DeleteUser(ctx context.Context, id string) (int, error) {
	return s.repo.DeleteUser(ctx, id)
}
