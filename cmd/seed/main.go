// Command main runs the database seeder for Glowup.
package main

import (
	"context"
	"flag"
	"log"

	"glowup/internal/config"
	"glowup/internal/database"
	"glowup/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	// Parse command line flags
	optionsFile := flag.String("config", "", "YAML file with seed options (flags are ignored when set)")
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	postsPerUser := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	followsPerUser := flag.Int("follows", defaults.FollowsPerUser, "Follows per user")
	maxDays := flag.Int("days", defaults.MaxDays, "Spread post timestamps over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	applySchema := flag.Bool("schema", true, "Apply the schema before seeding")
	flag.Parse()

	opts := defaults
	if *optionsFile != "" {
		var err error
		if opts, err = seed.LoadOptions(*optionsFile); err != nil {
			log.Fatalf("Failed to load seed options: %v", err)
		}
	} else {
		opts.Users = *numUsers
		opts.PostsPerUser = *postsPerUser
		opts.FollowsPerUser = *followsPerUser
		opts.MaxDays = *maxDays
		opts.Clean = *shouldClean
	}

	log.Printf("Target: %d users, %d posts each, %d follows each, clean=%v", opts.Users, opts.PostsPerUser, opts.FollowsPerUser, opts.Clean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if *applySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}

	res, err := seed.NewSeeder(db, opts).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d posts (%d details), %d follows, %d likes, %d comments",
		res.Users, res.Posts, res.Details, res.Follows, res.Likes, res.Comments)
}
