package agreement

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"assetbot/core/audit"
	"assetbot/core/storage"
	"assetbot/feature/agreement/models"
	"assetbot/feature/custody"
	"assetbot/feature/people"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles the VIP-gated loan agreement workflow: validate the
// coordinator, check out every equipment line, journal the agreement and
// archive a plain-text summary.
type Service struct {
	people  *people.Service
	custody *custody.Service
	db      *gorm.DB
	store   storage.Client
	bucket  string
	log     *zap.Logger
	rec     *audit.Recorder

	now func() time.Time
}

// NewService creates a new agreement service. db and store may be nil;
// journaling and archiving then degrade to warnings instead of failing
// submissions.
func NewService(
	ppl *people.Service,
	cst *custody.Service,
	db *gorm.DB,
	store storage.Client,
	bucket string,
	log *zap.Logger,
	rec *audit.Recorder,
) *Service {
	return &Service{
		people:  ppl,
		custody: cst,
		db:      db,
		store:   store,
		bucket:  bucket,
		log:     log,
		rec:     rec,
		now:     time.Now,
	}
}

// EquipmentLine is one item requested on an agreement.
type EquipmentLine struct {
	Name            string `json:"name"`
	AssetTag        string `json:"asset_tag"`
	InventoryNumber string `json:"inventory_number"`
	EquipmentType   string `json:"equipment_type"`
}

// SubmitInput is the loan agreement form.
type SubmitInput struct {
	BorrowerName   string          `json:"borrower_name"`
	BorrowerEmail  string          `json:"borrower_email"`
	BorrowerUserID int             `json:"borrower_user_id"`
	Location       string          `json:"location"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Equipment      []EquipmentLine `json:"equipment"`
}

// CheckoutReport aggregates the per-line checkout results of a submission.
type CheckoutReport struct {
	Successful      []string `json:"successful"`
	Failed          []string `json:"failed"`
	TotalItems      int      `json:"total_items"`
	SuccessfulCount int      `json:"successful_count"`
	FailedCount     int      `json:"failed_count"`
}

// Receipt is the response to a successful submission.
type Receipt struct {
	AgreementID string          `json:"agreement_id"`
	Message     string          `json:"message"`
	Checkout    *CheckoutReport `json:"checkout_results"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// ErrAccessDenied is returned when the submitting user fails the VIP gate.
type ErrAccessDenied struct {
	Reason string
}

func (e *ErrAccessDenied) Error() string { return e.Reason }

// ErrInvalidInput is returned for malformed submissions.
type ErrInvalidInput struct {
	Reason string
}

func (e *ErrInvalidInput) Error() string { return e.Reason }

// Submit processes a complete loan agreement. Only the VIP gate and the
// basic form validation can reject a submission outright; journal and
// archive failures degrade to warnings because the equipment checkouts
// have already happened.
func (s *Service) Submit(ctx context.Context, actor audit.Actor, in SubmitInput) (*Receipt, error) {
	coordinator, err := s.validateCoordinator(ctx, actor)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.BorrowerName) == "" {
		return nil, &ErrInvalidInput{Reason: "borrower name is required"}
	}
	if in.BorrowerUserID <= 0 {
		return nil, &ErrInvalidInput{Reason: "borrower user id is required"}
	}
	if len(in.Equipment) == 0 {
		return nil, &ErrInvalidInput{Reason: "at least one equipment line is required"}
	}

	agreementID := fmt.Sprintf("LA-%d-%d", actor.UserID, s.now().Unix())
	report := s.checkoutEquipment(ctx, actor, in.BorrowerUserID, in.Equipment)

	receipt := &Receipt{
		AgreementID: agreementID,
		Message:     fmt.Sprintf("Loan agreement successfully submitted for %s", in.BorrowerName),
		Checkout:    report,
	}

	summaryObject, err := s.archiveSummary(ctx, agreementID, coordinator.Name, in, report)
	if err != nil {
		s.log.Warn("failed to archive agreement summary",
			zap.String("agreement_id", agreementID), zap.Error(err))
		receipt.Warnings = append(receipt.Warnings, "Agreement summary could not be archived.")
	}

	if err := s.journal(ctx, agreementID, coordinator, in, report, summaryObject); err != nil {
		s.log.Warn("failed to journal agreement",
			zap.String("agreement_id", agreementID), zap.Error(err))
		receipt.Warnings = append(receipt.Warnings, "Agreement record could not be journaled.")
	}

	s.rec.Record(actor, audit.AgreementSubmitted,
		fmt.Sprintf("loan agreement %s submitted for %s: %d checkouts succeeded, %d failed",
			agreementID, in.BorrowerName, report.SuccessfulCount, report.FailedCount),
		zap.String("agreement_id", agreementID),
		zap.Int("borrower_id", in.BorrowerUserID),
	)

	return receipt, nil
}

// validateCoordinator enforces the VIP gate on the submitting user.
func (s *Service) validateCoordinator(ctx context.Context, actor audit.Actor) (*people.Profile, error) {
	if actor.UserID <= 0 {
		return nil, &ErrAccessDenied{Reason: "authentication required"}
	}

	coordinator, err := s.people.UserByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !coordinator.VIP {
		s.rec.Record(actor, audit.AgreementAccessDenied,
			fmt.Sprintf("non-VIP user %d attempted loan agreement submission", actor.UserID))
		return nil, &ErrAccessDenied{Reason: "VIP access required"}
	}
	return coordinator, nil
}

// checkoutEquipment checks out every line to the borrower, collecting
// per-line outcomes. A failing line never aborts the batch.
func (s *Service) checkoutEquipment(ctx context.Context, actor audit.Actor, borrowerID int, lines []EquipmentLine) *CheckoutReport {
	report := &CheckoutReport{TotalItems: len(lines)}

	for _, line := range lines {
		name := line.Name
		if name == "" {
			name = "Unknown"
		}
		if line.AssetTag == "" {
			report.Failed = append(report.Failed, fmt.Sprintf("%s: No asset tag provided", name))
			continue
		}

		outcome, err := s.custody.Checkout(ctx, actor, line.AssetTag, borrowerID)
		if err != nil {
			report.Failed = append(report.Failed,
				fmt.Sprintf("%s (%s): %s", name, line.AssetTag, err.Error()))
			continue
		}
		msg := "Successfully checked out"
		if outcome.Unconfirmed {
			msg = "Checked out, pending verification"
		}
		report.Successful = append(report.Successful,
			fmt.Sprintf("%s (%s): %s", name, line.AssetTag, msg))
	}

	report.SuccessfulCount = len(report.Successful)
	report.FailedCount = len(report.Failed)
	return report
}

// archiveSummary renders the agreement as plain text and uploads it to the
// archive bucket, creating the bucket on first use.
func (s *Service) archiveSummary(ctx context.Context, agreementID, coordinatorName string, in SubmitInput, report *CheckoutReport) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("archive storage not configured")
	}

	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := s.store.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", err
		}
	}

	body := s.renderSummary(agreementID, coordinatorName, in, report)
	objectName := agreementID + "_summary.txt"
	reader := strings.NewReader(body)
	_, err = s.store.PutObject(ctx, s.bucket, objectName, reader, int64(len(body)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (s *Service) renderSummary(agreementID, coordinatorName string, in SubmitInput, report *CheckoutReport) string {
	var b strings.Builder
	orNA := func(v string) string {
		if v == "" {
			return "N/A"
		}
		return v
	}

	b.WriteString("LOAN AGREEMENT SUMMARY\n")
	fmt.Fprintf(&b, "Agreement ID: %s\n", agreementID)
	fmt.Fprintf(&b, "Date Submitted: %s\n", s.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Confirmed By (Coordinator): %s\n\n", coordinatorName)

	b.WriteString("BORROWER INFORMATION:\n")
	fmt.Fprintf(&b, "Name: %s\n", orNA(in.BorrowerName))
	fmt.Fprintf(&b, "Email: %s\n", orNA(in.BorrowerEmail))
	fmt.Fprintf(&b, "Location: %s\n\n", orNA(in.Location))

	b.WriteString("DATES OF USE:\n")
	fmt.Fprintf(&b, "Start Date: %s\n", orNA(in.StartDate))
	fmt.Fprintf(&b, "End Date: %s\n\n", orNA(in.EndDate))

	b.WriteString("EQUIPMENT:\n")
	for i, line := range in.Equipment {
		name := line.Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		fmt.Fprintf(&b, "   Asset Tag: %s\n", orNA(line.AssetTag))
		fmt.Fprintf(&b, "   Inventory Number: %s\n", orNA(line.InventoryNumber))
		fmt.Fprintf(&b, "   Type: %s\n\n", orNA(line.EquipmentType))
	}

	b.WriteString("CHECKOUT RESULTS:\n")
	fmt.Fprintf(&b, "Successful: %d of %d\n", report.SuccessfulCount, report.TotalItems)
	for _, line := range report.Failed {
		fmt.Fprintf(&b, "Failed: %s\n", line)
	}
	return b.String()
}

// journal persists the agreement row.
func (s *Service) journal(ctx context.Context, agreementID string, coordinator *people.Profile, in SubmitInput, report *CheckoutReport, summaryObject string) error {
	if s.db == nil {
		return fmt.Errorf("journal database not configured")
	}

	row := models.LoanAgreement{
		AgreementID:     agreementID,
		BorrowerName:    in.BorrowerName,
		BorrowerEmail:   in.BorrowerEmail,
		BorrowerUserID:  in.BorrowerUserID,
		CoordinatorID:   coordinator.ID,
		CoordinatorName: coordinator.Name,
		Location:        in.Location,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		EquipmentCount:  report.TotalItems,
		SuccessfulCount: report.SuccessfulCount,
		FailedCount:     report.FailedCount,
		SummaryObject:   summaryObject,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// Summary retrieves the archived plain-text summary for an agreement.
func (s *Service) Summary(ctx context.Context, agreementID string) (io.ReadCloser, error) {
	if s.store == nil {
		return nil, fmt.Errorf("archive storage not configured")
	}
	if strings.TrimSpace(agreementID) == "" {
		return nil, &ErrInvalidInput{Reason: "agreement id is required"}
	}
	return s.store.GetObject(ctx, s.bucket, agreementID+"_summary.txt", minio.GetObjectOptions{})
}

// History lists the most recent journal rows.
func (s *Service) History(ctx context.Context, limit int) ([]models.LoanAgreement, error) {
	if s.db == nil {
		return nil, fmt.Errorf("journal database not configured")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows []models.LoanAgreement
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
