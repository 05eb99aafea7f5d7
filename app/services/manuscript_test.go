package services

import (
	"testing"

	"github.com/narang24/Journal-Website-Backend/app/dto"
	"github.com/narang24/Journal-Website-Backend/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
ManuscriptService Test Cases:

1. TestManuscriptService_List_ReviewerSeesReviewQueue
2. TestManuscriptService_List_PublisherSeesOwnListing
3. TestManuscriptService_Submit_Acknowledges
*/

func TestManuscriptService_List_ReviewerSeesReviewQueue(t *testing.T) {
	svc := NewManuscriptService()

	list := svc.List(&models.User{FullName: "Rev One", Role: models.RoleReviewer})

	require.NotEmpty(t, list)
	for _, m := range list {
		assert.Contains(t, []string{"awaiting_review", "review_in_progress"}, m.Status)
	}
}

func TestManuscriptService_List_PublisherSeesOwnListing(t *testing.T) {
	svc := NewManuscriptService()

	list := svc.List(&models.User{FullName: "Jane Doe", Role: models.RolePublisher})

	require.NotEmpty(t, list)
	assert.Contains(t, list[0].Authors, "Jane Doe")
}

func TestManuscriptService_Submit_Acknowledges(t *testing.T) {
	svc := NewManuscriptService()

	resp := svc.Submit(dto.SubmitManuscriptRequest{Title: "A Paper"})

	assert.True(t, resp.Success)
	assert.NotZero(t, resp.ManuscriptID)
	assert.NotEmpty(t, resp.Message)
}
