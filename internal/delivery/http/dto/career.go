package dto

import (
	"careerpath/internal/domain/career"
	"careerpath/internal/domain/matching"
	"careerpath/internal/usecase"

	"github.com/ecodeclub/ekit/slice"
)

type ReportQuery struct {
	Limit int `query:"limit" validate:"min=0,max=50"`
}

type CareerListQuery struct {
	Q      string `query:"q" validate:"max=100"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
}

type CareerSummary struct {
	Code      string `json:"code"`
	Title     string `json:"title"`
	JobZone   int    `json:"job_zone,omitempty"`
	Education string `json:"education,omitempty"`
}

type CareerListResponse struct {
	Items  []CareerSummary `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func NewCareerListResponse(l usecase.CareerList) CareerListResponse {
	return CareerListResponse{
		Items: slice.Map(l.Items, func(_ int, o career.Occupation) CareerSummary {
			return CareerSummary{Code: o.Code, Title: o.Title, JobZone: o.JobZone, Education: o.Education()}
		}),
		Total:  l.Total,
		Limit:  l.Limit,
		Offset: l.Offset,
	}
}

type FitResponse struct {
	Score          float64             `json:"score"`
	InterestFit    *float64            `json:"interest_fit"`
	SkillsFit      *float64            `json:"skills_fit"`
	PersonalityFit *float64            `json:"personality_fit"`
	SkillGaps      []matching.SkillGap `json:"skill_gaps"`
}

type CareerDetailResponse struct {
	Code         string             `json:"code"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	JobZone      int                `json:"job_zone,omitempty"`
	Education    string             `json:"education,omitempty"`
	SampleTitles []string           `json:"sample_titles"`
	Interests    map[string]float64 `json:"interests"`
	Skills       map[string]float64 `json:"skills"`
	Styles       map[string]float64 `json:"styles"`
	Fit          *FitResponse       `json:"fit,omitempty"`
}

func NewCareerDetailResponse(d usecase.CareerDetail) CareerDetailResponse {
	o := d.Occupation
	out := CareerDetailResponse{
		Code:         o.Code,
		Title:        o.Title,
		Description:  o.Description,
		JobZone:      o.JobZone,
		Education:    o.Education(),
		SampleTitles: o.SampleTitles,
		Interests:    o.Interests,
		Skills:       o.Skills,
		Styles:       o.Styles,
	}
	if out.SampleTitles == nil {
		out.SampleTitles = []string{}
	}
	if d.Fit != nil {
		gaps := d.Fit.Gaps
		if gaps == nil {
			gaps = []matching.SkillGap{}
		}
		out.Fit = &FitResponse{
			Score:          d.Fit.Score,
			InterestFit:    d.Fit.InterestFit,
			SkillsFit:      d.Fit.SkillsFit,
			PersonalityFit: d.Fit.PersonalityFit,
			SkillGaps:      gaps,
		}
	}
	return out
}
