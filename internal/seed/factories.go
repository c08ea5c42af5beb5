// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"glowup/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	activityTypes = []string{"weigh-in", "run", "sleep", "water", "lift", "skin check", "posture"}
	metricUnits   = []string{"kg", "km", "h", "L", "reps", "%"}
	timePeriods   = []string{"2 weeks", "1 month", "3 months", "6 months", "1 year"}
	durations     = []string{"10 min", "20 min", "45 min", "1 hour", "daily", "weekly"}

	routineSteps = map[models.RoutineType][]string{
		models.RoutineTypeSkincare: {"Cleanse", "Tone", "Vitamin C serum", "Moisturize", "SPF 50", "Retinol", "Exfoliate"},
		models.RoutineTypeWorkout:  {"Warm up", "Squats 5x5", "Bench press 5x5", "Rows 3x10", "Plank", "Stretch", "Cardio 20 min"},
		models.RoutineTypeDiet:     {"Water on waking", "Protein breakfast", "No sugar", "Vegetables at lunch", "Stop eating by 8pm"},
		models.RoutineTypeOther:    {"Mewing practice", "Posture check", "Cold shower", "Journal", "Sleep by 11pm"},
	}
)

// Factory builds domain entities with realistic fake content. It does not
// touch the database; the Seeder persists what it builds.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     time.Time
	seq     int
}

// NewFactory returns a Factory. A zero randSeed picks a time-based seed.
func NewFactory(randSeed int64, maxDays int) *Factory {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	return &Factory{
		faker:   gofakeit.New(randSeed),
		maxDays: maxDays,
		now:     time.Now().UTC(),
	}
}

// Intn returns a pseudo-random number in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

// BuildUser returns an unsaved user with a unique username and email.
func (f *Factory) BuildUser() *models.User {
	f.seq++
	base := strings.ToLower(f.faker.Username())
	if len(base) > 40 {
		base = base[:40]
	}
	username := fmt.Sprintf("%s%d", base, f.seq)
	bio := f.faker.Sentence(10)
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username)
	return &models.User{
		Username:       username,
		Email:          fmt.Sprintf("%s@example.com", username),
		ProfilePicture: &avatar,
		Bio:            &bio,
	}
}

// BuildPost returns an unsaved post of postType authored by user, created at
// a random point within the last maxDays days.
func (f *Factory) BuildPost(user *models.User, postType models.PostType) *models.Post {
	content := f.faker.Paragraph(1, 3, 8, "\n")
	post := &models.Post{
		UserID:   user.ID,
		Content:  &content,
		PostType: postType,
	}
	if f.faker.Number(0, 9) < 4 {
		image := fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
		post.ImageURL = &image
	}

	created := f.pastTime()
	post.CreatedAt = created
	post.UpdatedAt = created
	return post
}

// BuildBeforeAfter returns the detail row for a before_after post.
func (f *Factory) BuildBeforeAfter(post *models.Post) *models.BeforeAfter {
	description := f.faker.Sentence(12)
	period := timePeriods[f.Intn(len(timePeriods))]
	return &models.BeforeAfter{
		PostID:         post.ID,
		BeforeImageURL: fmt.Sprintf("https://picsum.photos/seed/before-%s/600/800", f.faker.UUID()),
		AfterImageURL:  fmt.Sprintf("https://picsum.photos/seed/after-%s/600/800", f.faker.UUID()),
		Description:    &description,
		TimePeriod:     &period,
		CreatedAt:      post.CreatedAt,
	}
}

// BuildProgressLog returns the detail row for a progress post.
func (f *Factory) BuildProgressLog(post *models.Post) *models.ProgressLog {
	value := f.faker.Float64Range(0.5, 120)
	unit := metricUnits[f.Intn(len(metricUnits))]
	return &models.ProgressLog{
		PostID:       post.ID,
		ActivityType: activityTypes[f.Intn(len(activityTypes))],
		Description:  f.faker.Sentence(10),
		MetricValue:  &value,
		MetricUnit:   &unit,
		CreatedAt:    post.CreatedAt,
	}
}

// BuildRoutine returns the detail row for a routine post with at least one step.
func (f *Factory) BuildRoutine(post *models.Post) *models.Routine {
	routineType := models.RoutineTypes[f.Intn(len(models.RoutineTypes))]
	pool := routineSteps[routineType]
	order := indexes(len(pool))
	f.faker.ShuffleInts(order)
	steps := make([]string, 0, len(pool))
	for _, i := range order[:1+f.Intn(len(pool))] {
		steps = append(steps, pool[i])
	}
	duration := durations[f.Intn(len(durations))]
	return &models.Routine{
		PostID:      post.ID,
		RoutineType: routineType,
		Title:       fmt.Sprintf("My %s routine", routineType),
		Description: f.faker.Paragraph(1, 2, 10, " "),
		Steps:       steps,
		Duration:    &duration,
		CreatedAt:   post.CreatedAt,
	}
}

// BuildComment returns an unsaved comment by user on post, written after the post.
func (f *Factory) BuildComment(user *models.User, post *models.Post) *models.Comment {
	at := post.CreatedAt.Add(time.Duration(1+f.Intn(48*60)) * time.Minute)
	if at.After(f.now) {
		at = f.now
	}
	return &models.Comment{
		UserID:    user.ID,
		PostID:    post.ID,
		Content:   f.faker.Sentence(8),
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.Intn(f.maxDays))*24*time.Hour +
		time.Duration(f.Intn(24))*time.Hour +
		time.Duration(f.Intn(60))*time.Minute
	return f.now.Add(-back).Truncate(time.Microsecond)
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
