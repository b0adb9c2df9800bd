package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fuselink/backend/internal/logger"
	"github.com/fuselink/backend/internal/models"
	"github.com/fuselink/backend/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev seeds the development database with realistic data: a handful of
// creators with full pages plus a few weeks of view and click history so the
// analytics dashboard has something to show.
func (s *Seeder) SeedDev() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating users...")
	users, err := s.seedUsers(20)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log("Creating collections and links...")
	links, err := s.seedPages(users)
	if err != nil {
		return fmt.Errorf("failed to seed pages: %w", err)
	}

	log("Creating subscribers...")
	if err := s.seedSubscribers(users, 200); err != nil {
		return fmt.Errorf("failed to seed subscribers: %w", err)
	}

	log("Creating view and click history...")
	if err := s.seedEvents(users, links, 5000, 2000); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with two fixed accounts used by the
// end-to-end suite
func (s *Seeder) SeedTest() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, u := range []models.User{
		{Email: "alice@test.fuselink.io", Username: "alice", Name: "Alice Test"},
		{Email: "bob@test.fuselink.io", Username: "bob", Name: "Bob Test"},
	} {
		u.PasswordHash = string(hash)
		u.IsPublic = true
		if err := s.db.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to create test user %s: %w", u.Username, err)
		}
	}
	return nil
}

// Clean removes everything the seeder creates. Destructive; dev only.
func (s *Seeder) Clean() error {
	for _, model := range []interface{}{
		&models.LinkClick{},
		&models.PageView{},
		&models.EmailSubscriber{},
		&models.Link{},
		&models.Collection{},
		&models.SocialLink{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	themes := []string{"default", "dark", "sunset", "ocean", "forest"}
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := strings.ToLower(gofakeit.Username())
		user := models.User{
			Email:        fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Username:     username,
			Name:         gofakeit.Name(),
			Bio:          gofakeit.Sentence(8),
			PasswordHash: string(hash),
			Theme:        themes[rand.Intn(len(themes))],
			IsPublic:     rand.Intn(10) > 0, // roughly one private profile in ten
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPages(users []models.User) ([]models.Link, error) {
	platforms := []string{"instagram", "x", "youtube", "tiktok", "github"}

	var allLinks []models.Link
	for _, user := range users {
		var collectionID *string
		if rand.Intn(2) == 0 {
			order, err := store.NextOrder(s.db, &models.Collection{}, user.ID)
			if err != nil {
				return nil, err
			}
			collection := models.Collection{
				UserID:   user.ID,
				Name:     gofakeit.BuzzWord(),
				Layout:   "grid",
				Order:    order,
				IsActive: true,
			}
			if err := s.db.Create(&collection).Error; err != nil {
				return nil, err
			}
			collectionID = &collection.ID
		}

		linkCount := 3 + rand.Intn(6)
		for i := 0; i < linkCount; i++ {
			order, err := store.NextOrder(s.db, &models.Link{}, user.ID)
			if err != nil {
				return nil, err
			}
			link := models.Link{
				UserID:   user.ID,
				Title:    gofakeit.Sentence(3),
				URL:      gofakeit.URL(),
				IsActive: true,
				Order:    order,
			}
			// Some links live inside the collection
			if collectionID != nil && rand.Intn(3) == 0 {
				link.CollectionID = collectionID
			}
			if err := s.db.Create(&link).Error; err != nil {
				return nil, err
			}
			allLinks = append(allLinks, link)
		}

		socialCount := 1 + rand.Intn(4)
		for i := 0; i < socialCount; i++ {
			order, err := store.NextOrder(s.db, &models.SocialLink{}, user.ID)
			if err != nil {
				return nil, err
			}
			social := models.SocialLink{
				UserID:   user.ID,
				Platform: platforms[rand.Intn(len(platforms))],
				URL:      gofakeit.URL(),
				Order:    order,
				IsActive: true,
			}
			if err := s.db.Create(&social).Error; err != nil {
				return nil, err
			}
		}
	}
	return allLinks, nil
}

func (s *Seeder) seedSubscribers(users []models.User, count int) error {
	sources := []string{"page_widget", "popup", "link_gate"}
	for i := 0; i < count; i++ {
		subscriber := models.EmailSubscriber{
			UserID:   users[rand.Intn(len(users))].ID,
			Email:    gofakeit.Email(),
			Source:   sources[rand.Intn(len(sources))],
			IsActive: true,
		}
		if err := s.db.Create(&subscriber).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedEvents backfills view and click history over the last 30 days.
// Sessions are reused across events so uniqueness flags look realistic.
func (s *Seeder) seedEvents(users []models.User, links []models.Link, viewCount, clickCount int) error {
	userAgents := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148",
		"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Mobile Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0",
	}
	referrers := []string{"https://instagram.com", "https://t.co", "https://google.com", ""}
	devices := []string{"desktop", "desktop", "mobile", "mobile", "desktop"}
	browsers := []string{"Chrome", "Safari", "Safari", "Chrome", "Firefox"}
	oses := []string{"Windows", "macOS", "iOS", "Android", "Linux"}

	sessions := make([]string, 500)
	for i := range sessions {
		sessions[i] = uuid.NewString()
	}

	// (subject, session) pairs already seen, for the uniqueness flag
	seenView := map[string]bool{}
	seenClick := map[string]bool{}

	randomCreatedAt := func() time.Time {
		return time.Now().Add(-time.Duration(rand.Intn(30*24*60)) * time.Minute)
	}

	for i := 0; i < viewCount; i++ {
		user := users[rand.Intn(len(users))]
		session := sessions[rand.Intn(len(sessions))]
		ua := rand.Intn(len(userAgents))

		pair := user.ID + ":" + session
		view := models.PageView{
			UserID:    user.ID,
			Referrer:  optional(referrers[rand.Intn(len(referrers))]),
			Country:   optional(gofakeit.Country()),
			City:      optional(gofakeit.City()),
			Device:    devices[ua],
			Browser:   browsers[ua],
			OS:        oses[ua],
			IPAddress: gofakeit.IPv4Address(),
			UserAgent: userAgents[ua],
			SessionID: session,
			IsUnique:  !seenView[pair],
			CreatedAt: randomCreatedAt(),
		}
		seenView[pair] = true
		if err := s.db.Create(&view).Error; err != nil {
			return err
		}
	}

	for i := 0; i < clickCount; i++ {
		link := links[rand.Intn(len(links))]
		session := sessions[rand.Intn(len(sessions))]
		ua := rand.Intn(len(userAgents))
		ttc := 500 + rand.Intn(15000)

		pair := link.ID + ":" + session
		click := models.LinkClick{
			LinkID:      link.ID,
			Referrer:    optional(referrers[rand.Intn(len(referrers))]),
			Country:     optional(gofakeit.Country()),
			City:        optional(gofakeit.City()),
			Device:      devices[ua],
			Browser:     browsers[ua],
			OS:          oses[ua],
			IPAddress:   gofakeit.IPv4Address(),
			UserAgent:   userAgents[ua],
			SessionID:   session,
			IsUnique:    !seenClick[pair],
			TimeToClick: &ttc,
			CreatedAt:   randomCreatedAt(),
		}
		seenClick[pair] = true
		if err := s.db.Create(&click).Error; err != nil {
			return err
		}
	}

	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
