package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sprestore/domain/drive"
	"sprestore/test/mocks"
)

const (
	testSite   = "contoso.sharepoint.com,site-guid,web-guid"
	testFolder = "Shared Documents/Finance"
	testName   = "report.xlsx"
)

func fastLocator(probes ItemLocator, maxAttempts int) *LocateService {
	return NewLocateService(probes, maxAttempts, time.Millisecond)
}

func TestLocate_ExactPathShortCircuits(t *testing.T) {
	probes := &mocks.MockItemLocator{}
	expected := &drive.Item{ID: "item-1", Name: testName}
	probes.On("GetItemByPath", mock.Anything, testSite, testFolder, testName).Return(expected, nil).Once()

	result := fastLocator(probes, 6).Locate(context.Background(), testSite, testFolder, testName)

	assert.Equal(t, LocateFound, result.Outcome)
	assert.Same(t, expected, result.Item)
	assert.Equal(t, 1, result.Attempts)
	probes.AssertNotCalled(t, "ListChildren")
	probes.AssertNotCalled(t, "SearchItems")
}

func TestLocate_ExhaustsAfterMaxAttempts(t *testing.T) {
	probes := &mocks.MockItemLocator{}
	probes.On("GetItemByPath", mock.Anything, testSite, testFolder, testName).Return(nil, errors.New("itemNotFound"))
	probes.On("ListChildren", mock.Anything, testSite, testFolder).Return([]*drive.Item{}, nil)
	probes.On("SearchItems", mock.Anything, testSite, testName).Return([]*drive.Item{}, nil)

	result := fastLocator(probes, 3).Locate(context.Background(), testSite, testFolder, testName)

	assert.Equal(t, LocateExhausted, result.Outcome)
	assert.Nil(t, result.Item)
	assert.Equal(t, 3, result.Attempts)
	// No further backend calls after the budget is consumed.
	probes.AssertNumberOfCalls(t, "GetItemByPath", 3)
	probes.AssertNumberOfCalls(t, "ListChildren", 3)
	probes.AssertNumberOfCalls(t, "SearchItems", 3)
}

func TestLocate_FolderListingCatchesRestoreRename(t *testing.T) {
	// End-to-end scenario: exact path misses, the folder listing holds the
	// original name and a collision-renamed sibling; the fresher exact-name
	// candidate wins.
	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	children := []*drive.Item{
		{ID: "b", Name: "report (1).xlsx", LastModified: t1},
		{ID: "a", Name: "report.xlsx", LastModified: t2},
		{ID: "c", Name: "unrelated.docx", LastModified: t2},
	}

	probes := &mocks.MockItemLocator{}
	probes.On("GetItemByPath", mock.Anything, testSite, testFolder, testName).Return(nil, errors.New("itemNotFound")).Once()
	probes.On("ListChildren", mock.Anything, testSite, testFolder).Return(children, nil).Once()

	result := fastLocator(probes, 6).Locate(context.Background(), testSite, testFolder, testName)

	require.Equal(t, LocateFound, result.Outcome)
	assert.Equal(t, "a", result.Item.ID)
	assert.Equal(t, "report.xlsx", result.Item.Name)
	assert.Equal(t, 1, result.Attempts)
	probes.AssertNotCalled(t, "SearchItems")
}

func TestLocate_SearchFallbackPrefersExpectedFolder(t *testing.T) {
	inFolder := &drive.Item{
		ID:           "near",
		Name:         testName,
		LastModified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ParentPath:   "/drive/root:/Shared%20Documents/Finance",
	}
	elsewhere := &drive.Item{
		ID:           "far",
		Name:         testName,
		LastModified: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ParentPath:   "/drive/root:/Archive",
	}

	probes := &mocks.MockItemLocator{}
	probes.On("GetItemByPath", mock.Anything, testSite, testFolder, testName).Return(nil, errors.New("itemNotFound")).Once()
	probes.On("ListChildren", mock.Anything, testSite, testFolder).Return(nil, errors.New("folder not found")).Once()
	probes.On("SearchItems", mock.Anything, testSite, testName).Return([]*drive.Item{elsewhere, inFolder}, nil).Once()

	result := fastLocator(probes, 6).Locate(context.Background(), testSite, testFolder, testName)

	require.Equal(t, LocateFound, result.Outcome)
	assert.Equal(t, "near", result.Item.ID)
}

func TestLocate_NoFolderHintUsesSearchOnly(t *testing.T) {
	found := &drive.Item{ID: "x", Name: testName}

	probes := &mocks.MockItemLocator{}
	probes.On("SearchItems", mock.Anything, testSite, testName).Return([]*drive.Item{found}, nil).Once()

	result := fastLocator(probes, 6).Locate(context.Background(), testSite, "", testName)

	require.Equal(t, LocateFound, result.Outcome)
	assert.Equal(t, "x", result.Item.ID)
	probes.AssertNotCalled(t, "GetItemByPath")
	probes.AssertNotCalled(t, "ListChildren")
}

func TestLocate_CancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probes := &mocks.MockItemLocator{}
	result := fastLocator(probes, 6).Locate(ctx, testSite, testFolder, testName)

	assert.Equal(t, LocateCancelled, result.Outcome)
	assert.Zero(t, result.Attempts)
	probes.AssertNotCalled(t, "GetItemByPath")
}

func TestLocate_CancelledDuringDelayAbortsPromptly(t *testing.T) {
	probes := &mocks.MockItemLocator{}
	probes.On("GetItemByPath", mock.Anything, testSite, testFolder, testName).Return(nil, errors.New("itemNotFound"))
	probes.On("ListChildren", mock.Anything, testSite, testFolder).Return([]*drive.Item{}, nil)
	probes.On("SearchItems", mock.Anything, testSite, testName).Return([]*drive.Item{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// A long delay relative to the context deadline: the loop must give up
	// during the first sleep instead of burning the full attempt budget.
	service := NewLocateService(probes, 10, 250*time.Millisecond)
	result := service.Locate(ctx, testSite, testFolder, testName)

	assert.Equal(t, LocateCancelled, result.Outcome)
	assert.Equal(t, 1, result.Attempts)
}
