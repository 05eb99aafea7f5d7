package services

import (
	"time"

	"github.com/narang24/Journal-Website-Backend/app/dto"
	"github.com/narang24/Journal-Website-Backend/app/metrics"
	"github.com/narang24/Journal-Website-Backend/app/models"
)

// ManuscriptService serves placeholder manuscript data. Nothing here touches
// storage; the listing is fixtures shaped by role and submissions are
// acknowledged without being persisted.
type ManuscriptService struct{}

func NewManuscriptService() *ManuscriptService {
	return &ManuscriptService{}
}

// List returns role-appropriate fixtures: reviewers see manuscripts awaiting
// review, everyone else sees an author-style listing.
func (s *ManuscriptService) List(user *models.User) []dto.Manuscript {
	if user.Role == models.RoleReviewer {
		return []dto.Manuscript{
			{
				ID:            101,
				Title:         "Transformer Architectures for Low-Resource Machine Translation",
				Abstract:      "We evaluate transformer variants on translation tasks with under 100k sentence pairs.",
				Status:        "awaiting_review",
				SubmittedDate: "2025-11-02",
				Authors:       []string{"Priya Raman", "Daniel Okafor"},
				Keywords:      []string{"machine translation", "transformers", "low-resource"},
				Category:      "Computer Science",
			},
			{
				ID:            102,
				Title:         "A Survey of Consensus Protocols in Permissioned Blockchains",
				Abstract:      "This survey compares BFT-family consensus protocols deployed in permissioned settings.",
				Status:        "review_in_progress",
				SubmittedDate: "2025-10-18",
				Authors:       []string{"Mei-Ling Chou"},
				Keywords:      []string{"blockchain", "consensus", "distributed systems"},
				Category:      "Computer Science",
			},
		}
	}

	return []dto.Manuscript{
		{
			ID:            1,
			Title:         "Deep Learning Approaches to Protein Structure Prediction",
			Abstract:      "We present a neural approach to predicting tertiary protein structure from sequence data.",
			Status:        "under_review",
			SubmittedDate: "2025-11-10",
			Authors:       []string{user.FullName},
			Keywords:      []string{"deep learning", "proteins", "bioinformatics"},
			Category:      "Computational Biology",
		},
		{
			ID:            2,
			Title:         "Energy-Aware Scheduling in Edge Computing Clusters",
			Abstract:      "A scheduling policy that trades tail latency for energy savings on edge hardware.",
			Status:        "published",
			SubmittedDate: "2025-08-21",
			Authors:       []string{user.FullName, "Sofia Alvarez"},
			Keywords:      []string{"edge computing", "scheduling", "energy"},
			Category:      "Computer Science",
		},
	}
}

// Submit acknowledges a submission without persisting it. The returned
// identifier is a timestamp so repeated submissions stay distinguishable.
func (s *ManuscriptService) Submit(req dto.SubmitManuscriptRequest) dto.SubmitManuscriptResponse {
	metrics.RecordManuscriptSubmission()
	return dto.SubmitManuscriptResponse{
		Success:      true,
		ManuscriptID: time.Now().UnixMilli(),
		Message:      "Manuscript submitted successfully! It is now awaiting editorial review.",
	}
}
