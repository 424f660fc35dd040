package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/policy"
)

// seedPost creates a post and backdates it so ordering assertions are stable.
func seedPost(t *testing.T, db *gorm.DB, content *ContentStore, title, category string, age time.Duration) *models.Post {
	t.Helper()
	post, err := content.Create(title, "body of "+title, category, "")
	require.NoError(t, err)
	createdAt := time.Now().UTC().Add(-age)
	require.NoError(t, db.Model(post).UpdateColumn("created_at", createdAt).Error)
	post.CreatedAt = createdAt
	return post
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)

	seedPost(t, db, content, "oldest", "General", 3*time.Hour)
	seedPost(t, db, content, "middle", "Go", 2*time.Hour)
	seedPost(t, db, content, "newest", "General", 1*time.Hour)

	posts, err := content.List("")
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Title)
	assert.Equal(t, "middle", posts[1].Title)
	assert.Equal(t, "oldest", posts[2].Title)
}

func TestListFiltersByCategory(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)

	seedPost(t, db, content, "go post", "Go", time.Hour)
	seedPost(t, db, content, "general post", "General", 2*time.Hour)

	posts, err := content.List("Go")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "go post", posts[0].Title)
}

func TestListFillsCommentCounts(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)
	identity := NewIdentityStore(db)

	alice, err := identity.Register("alice", "", "pw1", "")
	require.NoError(t, err)
	post := seedPost(t, db, content, "discussed", "General", time.Hour)
	quiet := seedPost(t, db, content, "quiet", "General", 2*time.Hour)

	for i := 0; i < 2; i++ {
		_, err := content.AddComment(post.ID, alice.ID, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
	}

	posts, err := content.List("")
	require.NoError(t, err)
	byTitle := map[string]int{}
	for _, p := range posts {
		byTitle[p.Title] = p.CommentCount
	}
	assert.Equal(t, 2, byTitle["discussed"])
	assert.Equal(t, 0, byTitle["quiet"])
	_ = quiet
}

func TestCreateDefaultsCategory(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)

	post, err := content.Create("untitled category", "body", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, post.Category)
}

func TestGetUnknownPost(t *testing.T) {
	content := NewContentStore(newTestDB(t))

	_, err := content.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelatedExcludesSelfAndOtherCategories(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)

	subject := seedPost(t, db, content, "subject", "Go", 5*time.Hour)
	seedPost(t, db, content, "sibling a", "Go", 4*time.Hour)
	seedPost(t, db, content, "sibling b", "Go", 3*time.Hour)
	seedPost(t, db, content, "sibling c", "Go", 2*time.Hour)
	seedPost(t, db, content, "sibling d", "Go", 1*time.Hour)
	seedPost(t, db, content, "stranger", "General", 90*time.Minute)

	related, err := content.Related(subject, 0)
	require.NoError(t, err)
	require.Len(t, related, RelatedPostsLimit)
	for _, p := range related {
		assert.NotEqual(t, subject.ID, p.ID)
		assert.Equal(t, "Go", p.Category)
	}
	// Most recent siblings win.
	assert.Equal(t, "sibling d", related[0].Title)
}

func TestUpdatePost(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)

	post := seedPost(t, db, content, "before", "General", time.Hour)

	title := "after"
	body := "updated body"
	category := "Go"
	updated, err := content.Update(post.ID, PostChanges{Title: &title, Content: &body, Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "updated body", updated.Content)
	assert.Equal(t, "Go", updated.Category)

	_, err = content.Update(999, PostChanges{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeSequential(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)

	post := seedPost(t, db, content, "liked", "General", time.Hour)

	for i := 1; i <= 5; i++ {
		n, err := content.Like(post.ID)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	got, err := content.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Likes)
	assert.Equal(t, 0, got.Dislikes)
}

func TestLikeConcurrentNoLostUpdates(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)

	post := seedPost(t, db, content, "contested", "General", time.Hour)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := content.Like(post.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := content.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.Likes)
}

func TestDislike(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)

	post := seedPost(t, db, content, "contentious", "General", time.Hour)

	n, err := content.Dislike(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := content.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
	assert.Equal(t, 1, got.Dislikes)
}

func TestReactUnknownPost(t *testing.T) {
	content := NewContentStore(newTestDB(t))

	_, err := content.Like(404)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = content.Dislike(404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddComment(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)
	identity := NewIdentityStore(db)

	alice, err := identity.Register("alice", "", "pw1", "")
	require.NoError(t, err)
	post := seedPost(t, db, content, "commented", "General", time.Hour)

	comment, err := content.AddComment(post.ID, alice.ID, "  first!  ")
	require.NoError(t, err)
	assert.Equal(t, "first!", comment.Content)
	assert.Equal(t, alice.ID, comment.UserID)

	_, err = content.AddComment(post.ID, alice.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = content.AddComment(999, alice.ID, "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentsOldestFirstWithAuthors(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)
	identity := NewIdentityStore(db)

	alice, err := identity.Register("alice", "", "pw1", "")
	require.NoError(t, err)
	post := seedPost(t, db, content, "threaded", "General", time.Hour)

	first, err := content.AddComment(post.ID, alice.ID, "first")
	require.NoError(t, err)
	require.NoError(t, db.Model(first).UpdateColumn("created_at", time.Now().UTC().Add(-time.Minute)).Error)
	_, err = content.AddComment(post.ID, alice.ID, "second")
	require.NoError(t, err)

	comments, err := content.Comments(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "alice", comments[0].User.Username)
}

func TestDeleteCascadesComments(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)
	identity := NewIdentityStore(db)

	alice, err := identity.Register("alice", "", "pw1", "")
	require.NoError(t, err)
	post := seedPost(t, db, content, "doomed", "General", time.Hour)
	keeper := seedPost(t, db, content, "keeper", "General", 2*time.Hour)

	_, err = content.AddComment(post.ID, alice.ID, "on doomed")
	require.NoError(t, err)
	_, err = content.AddComment(keeper.ID, alice.ID, "on keeper")
	require.NoError(t, err)

	require.NoError(t, content.Delete(post.ID))

	_, err = content.Get(post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var orphaned int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)

	// The other post's comments survive.
	comments, err := content.Comments(keeper.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	assert.ErrorIs(t, content.Delete(post.ID), ErrNotFound)
}

// TestAdminGatedPublishFlow walks the registration-to-publish scenario: an
// ordinary member is refused at the policy gate, the admin is not, and the
// new post lands at the top of the list.
func TestAdminGatedPublishFlow(t *testing.T) {
	db := newTestDB(t)
	content := NewContentStore(db)
	identity := NewIdentityStore(db)

	alice, err := identity.Register("alice", "", "pw1", "")
	require.NoError(t, err)
	loggedIn, err := identity.Authenticate("alice", "pw1")
	require.NoError(t, err)

	err = policy.Authorize(policy.IdentityOf(loggedIn), policy.ActionCreatePost)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	admin := models.User{Username: "admin", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	seedPost(t, db, content, "older post", "General", time.Hour)

	require.NoError(t, policy.Authorize(policy.IdentityOf(&admin), policy.ActionCreatePost))
	_, err = content.Create("Hello", "World", "General", "")
	require.NoError(t, err)

	posts, err := content.List("")
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	assert.Equal(t, "Hello", posts[0].Title)

	// Anonymous commenting is refused before the store is reached.
	err = policy.Authorize(nil, policy.ActionComment)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
	_ = alice
}
