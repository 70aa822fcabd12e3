package analysissrv

import (
	"context"
	"errors"
	"strings"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/internal/docext"
	"github.com/resumatch/resumatch/pkg/kernel"
	"github.com/resumatch/resumatch/pkg/logx"
	"github.com/resumatch/resumatch/vocabulary"
)

// Service runs the full comparison pipeline: extraction, entity
// recognition, normalization, matching, scoring and role
// classification.
type Service struct {
	recognizer analysis.EntityRecognizer
	normalizer *vocabulary.Normalizer
	matcher    *Matcher
	classifier *RoleClassifier
}

func NewService(
	recognizer analysis.EntityRecognizer,
	normalizer *vocabulary.Normalizer,
	matcher *Matcher,
	classifier *RoleClassifier,
) *Service {
	return &Service{
		recognizer: recognizer,
		normalizer: normalizer,
		matcher:    matcher,
		classifier: classifier,
	}
}

// ExtractDocument converts a binary document into its parsed form.
func (s *Service) ExtractDocument(data []byte, format kernel.DocumentFormat) (*analysis.ParsedDocument, error) {
	ext, err := docext.Extract(data, format)
	if err != nil {
		switch {
		case errors.Is(err, docext.ErrUnsupportedFormat):
			return nil, analysis.ErrUnsupportedFormat(string(format))
		case errors.Is(err, docext.ErrCorruptDocument):
			return nil, analysis.ErrCorruptDocument(err)
		default:
			return nil, analysis.ErrCorruptDocument(err)
		}
	}
	return &analysis.ParsedDocument{
		FullText: ext.FullText,
		Contact: analysis.ContactInfo{
			Email: ext.Contact.Email,
			Phone: ext.Contact.Phone,
		},
		Sections: ext.Sections,
	}, nil
}

// BuildProfile recognizes entities in the parsed text and normalizes
// skill mentions into canonical keys. The first experience and
// education mentions win; skills are set-deduplicated by key.
func (s *Service) BuildProfile(ctx context.Context, doc *analysis.ParsedDocument, source analysis.Source) (*analysis.ExtractedProfile, error) {
	mentions, err := s.recognizer.Recognize(ctx, doc.FullText)
	if err != nil {
		return nil, analysis.ErrRecognitionFailed(err)
	}

	profile := &analysis.ExtractedProfile{Source: source}
	for _, m := range mentions {
		switch m.Type {
		case analysis.EntitySkill:
			profile.AddSkill(m.Text, s.normalizer.Normalize(m.Text))
		case analysis.EntityExperienceLevel:
			if profile.ExperienceLevel == "" {
				profile.ExperienceLevel = strings.TrimSpace(m.Text)
			}
		case analysis.EntityEducation:
			if profile.EducationRequirement == "" {
				profile.EducationRequirement = strings.TrimSpace(m.Text)
			}
		}
	}
	return profile, nil
}

// Compare runs the end-to-end pipeline over a resume and a job
// description and produces the scored skill partition.
func (s *Service) Compare(ctx context.Context, resumeData []byte, resumeFormat kernel.DocumentFormat, jdData []byte, jdFormat kernel.DocumentFormat) (*analysis.CompareResponse, error) {
	if len(resumeData) == 0 {
		return nil, analysis.ErrMissingInput("resume_file")
	}
	if len(jdData) == 0 {
		return nil, analysis.ErrMissingInput("jd_file")
	}

	resumeDoc, err := s.ExtractDocument(resumeData, resumeFormat)
	if err != nil {
		return nil, err
	}
	jdDoc, err := s.ExtractDocument(jdData, jdFormat)
	if err != nil {
		return nil, err
	}

	return s.CompareDocuments(ctx, resumeDoc, jdDoc)
}

// CompareDocuments runs recognition, matching, scoring and role
// classification over two already-parsed documents. The predicted role
// is the candidate's, so the classifier reads the resume's text.
func (s *Service) CompareDocuments(ctx context.Context, resumeDoc, jdDoc *analysis.ParsedDocument) (*analysis.CompareResponse, error) {
	resumeProfile, err := s.BuildProfile(ctx, resumeDoc, analysis.SourceResume)
	if err != nil {
		return nil, err
	}
	jdProfile, err := s.BuildProfile(ctx, jdDoc, analysis.SourceJobDescription)
	if err != nil {
		return nil, err
	}

	match, err := s.matcher.Match(ctx, resumeProfile.SkillKeys(), jdProfile.SkillKeys())
	if err != nil {
		return nil, err
	}
	score := FitScore(match)

	role := s.classifier.Classify(ctx, resumeDoc.FullText)

	logx.Infof("Comparison done: score=%.2f matched=%d missing=%d extra=%d role=%s",
		score, len(match.Matched), len(match.Missing), len(match.Extra), role.Label)

	return analysis.NewCompareResponse(match, score, resumeProfile, jdProfile, resumeDoc, role), nil
}

// Extract exposes document parsing plus profile extraction on its own.
func (s *Service) Extract(ctx context.Context, data []byte, format kernel.DocumentFormat) (*analysis.ExtractResponse, error) {
	if len(data) == 0 {
		return nil, analysis.ErrMissingInput("file")
	}
	doc, err := s.ExtractDocument(data, format)
	if err != nil {
		return nil, err
	}
	profile, err := s.BuildProfile(ctx, doc, analysis.SourceResume)
	if err != nil {
		return nil, err
	}
	return &analysis.ExtractResponse{
		FullText: doc.FullText,
		Contact:  doc.Contact,
		Sections: doc.Sections,
		Profile:  profile,
	}, nil
}

// PredictRole classifies free text against the role vocabulary. Never
// fails: degenerate input yields the unknown label.
func (s *Service) PredictRole(ctx context.Context, text string) analysis.RolePrediction {
	return s.classifier.Classify(ctx, text)
}
