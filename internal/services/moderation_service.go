package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing", "malware",
}

// ModerationService filters review and feedback text before insert and
// runs the report queue, including bot-flag disputes that route to the
// suspicion service on resolution.
type ModerationService struct {
	db                  *gorm.DB
	suspicion           *SuspicionService
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
	compiled            bool
	mu                  sync.RWMutex
}

func NewModerationService(db *gorm.DB, suspicion *SuspicionService) *ModerationService {
	ms := &ModerationService{db: db, suspicion: suspicion}
	ms.compilePatterns()
	return ms
}

func (ms *ModerationService) compilePatterns() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.compiled {
		return
	}

	ms.bannedWordRegexps = make([]*regexp.Regexp, 0, len(BannedWords))
	for _, word := range BannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			ms.bannedWordRegexps = append(ms.bannedWordRegexps, re)
		}
	}

	ms.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	ms.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	ms.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	ms.repeatedCharPattern = regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|!{4,}|\?{4,}|\.{4,})`)
	ms.allCapsPattern = regexp.MustCompile(`[A-Z]{5,}`)
	ms.compiled = true
}

func (ms *ModerationService) FilterContent(text string) (bool, string) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if text == "" {
		return true, ""
	}
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if ms.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if ms.emailPattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ms.phonePattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ms.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	capsMatches := ms.allCapsPattern.FindAllString(text, -1)
	if len(capsMatches) > 2 {
		return false, "excessive_caps"
	}
	return true, ""
}

func (ms *ModerationService) GetRejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language":   "Your post contains inappropriate language.",
		"url_not_allowed":          "URLs and web links are not allowed.",
		"contact_info_not_allowed": "Contact information is not allowed.",
		"spam_detected":            "Your post appears to be spam.",
		"excessive_caps":           "Please avoid using excessive capital letters.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "Your post does not meet our content guidelines."
}

func (s *ModerationService) CreateReport(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	validTypes := map[string]bool{"user": true, "review": true, "feedback": true, "bot_flag": true}
	if !validTypes[req.ContentType] {
		return nil, errors.New("invalid content_type: must be user, review, feedback, or bot_flag")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, errors.New("reason is required")
	}

	contentID := req.ContentID
	if req.ContentType == "bot_flag" {
		// A bot-flag dispute is always about the reporter's own account.
		contentID = reporterID.String()
	}

	report := models.Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   contentID,
		Reason:      req.Reason,
		Status:      "pending",
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ModerationService) ListReports(status string, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error
	return reports, total, err
}

// ActionReport resolves or dismisses a report. Resolving a bot-flag
// dispute clears the reporter's flag through the suspicion service.
func (s *ModerationService) ActionReport(reportID uuid.UUID, req *dto.ActionReportRequest) (*models.Report, error) {
	if req.Status != "resolved" && req.Status != "dismissed" {
		return nil, errors.New("status must be resolved or dismissed")
	}

	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrReportNotFound
	}

	if err := s.db.Model(&report).Updates(map[string]interface{}{
		"status":     req.Status,
		"admin_note": req.AdminNote,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to action report: %w", err)
	}

	if report.ContentType == "bot_flag" && req.Status == "resolved" {
		if err := s.suspicion.ClearFlag(report.ReporterID); err != nil && !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
	}

	report.Status = req.Status
	report.AdminNote = req.AdminNote
	return &report, nil
}
