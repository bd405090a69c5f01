package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-support-go/internal/model"
	"ecom-support-go/internal/retriever"
)

func TestFAQServiceRetrieveWithoutCache(t *testing.T) {
	svc := NewFAQService(retriever.New(dialogueCorpus(), 3, 0.5), nil, 0)

	matches, err := svc.Retrieve(context.Background(), "How long does shipping take?", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Standard shipping takes 3-5 business days. Express shipping takes 1-2 business days.", matches[0].Answer)
}

func TestFAQServiceRetrieveNoMatch(t *testing.T) {
	svc := NewFAQService(retriever.New(dialogueCorpus(), 3, 0.5), nil, 0)

	matches, err := svc.Retrieve(context.Background(), "asdkjhasdkjh", 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFAQServiceReload(t *testing.T) {
	rt := retriever.New(dialogueCorpus(), 3, 0.5)
	svc := NewFAQService(rt, nil, 0)
	ctx := context.Background()

	require.NoError(t, svc.Reload(ctx, []model.FAQEntry{
		{Question: "Is there a student discount?", Answer: "Yes, students get 10% off with a valid ID."},
	}))
	assert.Equal(t, 1, rt.Size())

	matches, err := svc.Retrieve(ctx, "Is there a student discount?", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Yes, students get 10% off with a valid ID.", matches[0].Answer)
}
