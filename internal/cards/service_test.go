package cards

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bcardz/bcard-backend/internal/users"
	"github.com/bcardz/bcard-backend/pkg/db/models"
	pkgerrors "github.com/bcardz/bcard-backend/pkg/errors"
	"github.com/bcardz/bcard-backend/pkg/pagination"
)

func newTestService(t *testing.T, rand func() int) (Service, *Repository) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Card{}, &models.CardLike{}))

	repo := NewRepository(gdb)
	svc, err := NewService(ServiceParams{Repo: repo, RandBizNumber: rand})
	require.NoError(t, err)
	return svc, repo
}

func businessActor() Actor {
	return Actor{UserID: uuid.New(), IsBusiness: true}
}

func cardRequest(email string) CardRequest {
	return CardRequest{
		Title:       "Business Card 1",
		Subtitle:    "Best in Tel Aviv",
		Description: "Quality services for all",
		Phone:       "0523334444",
		Email:       email,
		Web:         "https://www.youtube.com/",
		Image:       users.ImageRequest{Alt: "Business logo 1"},
		Address: CardAddressRequest{
			Country:     "Israel",
			City:        "Tel Aviv",
			Street:      "Dizengoff",
			HouseNumber: 22,
			Zip:         67890,
		},
	}
}

func TestCreateRequiresBusinessAccount(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Create(context.Background(), Actor{UserID: uuid.New()}, cardRequest("card@x.com"))
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateAssignsOwnerAndBizNumber(t *testing.T) {
	svc, _ := newTestService(t, nil)
	actor := businessActor()

	created, err := svc.Create(context.Background(), actor, cardRequest("card@x.com"))
	require.NoError(t, err)
	require.Equal(t, actor.UserID, created.UserID)
	require.GreaterOrEqual(t, created.BizNumber, bizNumberMin)
	require.LessOrEqual(t, created.BizNumber, bizNumberMax)
	require.Empty(t, created.Likes)
	require.Equal(t, defaultCardImageURL, created.Image.URL)
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, businessActor(), cardRequest("dup@x.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, businessActor(), cardRequest("dup@x.com"))
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateRetriesTakenBizNumber(t *testing.T) {
	numbers := []int{1234567, 1234567, 7654321}
	i := 0
	svc, _ := newTestService(t, func() int {
		n := numbers[i%len(numbers)]
		i++
		return n
	})
	ctx := context.Background()

	first, err := svc.Create(ctx, businessActor(), cardRequest("one@x.com"))
	require.NoError(t, err)
	require.Equal(t, 1234567, first.BizNumber)

	second, err := svc.Create(ctx, businessActor(), cardRequest("two@x.com"))
	require.NoError(t, err)
	require.Equal(t, 7654321, second.BizNumber)
}

func TestListPublicRedactsFields(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, businessActor(), cardRequest("card@x.com"))
	require.NoError(t, err)

	listed, err := svc.ListPublic(ctx, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "Business Card 1", listed[0].Title)
	require.Equal(t, "card@x.com", listed[0].Email)
}

func TestListMineFiltersByOwner(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	mine := businessActor()
	other := businessActor()

	_, err := svc.Create(ctx, mine, cardRequest("mine@x.com"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, cardRequest("other@x.com"))
	require.NoError(t, err)

	listed, err := svc.ListMine(ctx, mine)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, mine.UserID, listed[0].UserID)
}

func TestGetMissingCard(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Get(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateOwnershipMatrix(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	owner := businessActor()

	created, err := svc.Create(ctx, owner, cardRequest("own@x.com"))
	require.NoError(t, err)

	update := cardRequest("own@x.com")
	update.Title = "Renamed"

	_, err = svc.Update(ctx, Actor{UserID: uuid.New()}, created.ID, update)
	requireCode(t, err, pkgerrors.CodeForbidden)

	updated, err := svc.Update(ctx, owner, created.ID, update)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, created.BizNumber, updated.BizNumber)

	update.Title = "Admin renamed"
	updated, err = svc.Update(ctx, Actor{UserID: uuid.New(), IsAdmin: true}, created.ID, update)
	require.NoError(t, err)
	require.Equal(t, "Admin renamed", updated.Title)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	owner := businessActor()
	liker := Actor{UserID: uuid.New()}

	created, err := svc.Create(ctx, owner, cardRequest("like@x.com"))
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, liker, created.ID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{liker.UserID}, liked.Likes)

	// a second like in a row turns it off
	unliked, err := svc.ToggleLike(ctx, liker, created.ID)
	require.NoError(t, err)
	require.Empty(t, unliked.Likes)

	_, err = svc.ToggleLike(ctx, liker, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSetBizNumber(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, businessActor(), cardRequest("first@x.com"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, businessActor(), cardRequest("second@x.com"))
	require.NoError(t, err)

	updated, err := svc.SetBizNumber(ctx, first.ID, 1111111)
	require.NoError(t, err)
	require.Equal(t, 1111111, updated.BizNumber)

	// idempotent per value on the same card
	again, err := svc.SetBizNumber(ctx, first.ID, 1111111)
	require.NoError(t, err)
	require.Equal(t, 1111111, again.BizNumber)

	_, err = svc.SetBizNumber(ctx, second.ID, 1111111)
	requireCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.SetBizNumber(ctx, uuid.New(), 2222222)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteOwnershipAndLikesCleanup(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()
	owner := businessActor()
	liker := Actor{UserID: uuid.New()}

	created, err := svc.Create(ctx, owner, cardRequest("del@x.com"))
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, liker, created.ID)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, Actor{UserID: uuid.New()}, created.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)

	deleted, err := svc.Delete(ctx, owner, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)

	_, err = svc.Get(ctx, created.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	likes, err := repo.Likes(ctx, created.ID)
	require.NoError(t, err)
	require.Empty(t, likes)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, code, typed.Code())
}
