// Command seed resets the database and loads fixture data: both tables
// are dropped and recreated, fixture passwords are bcrypt-hashed, and a
// handful of users and tasks are inserted.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/tford-dev/tasks-app-api/internal/auth"
	taskentity "github.com/tford-dev/tasks-app-api/internal/task/entity"
	taskrepo "github.com/tford-dev/tasks-app-api/internal/task/repo"
	userentity "github.com/tford-dev/tasks-app-api/internal/user/entity"
	userrepo "github.com/tford-dev/tasks-app-api/internal/user/repo"
	"github.com/tford-dev/tasks-app-api/pkg/database"
	"github.com/tford-dev/tasks-app-api/pkg/utilities"
)

type seedUser struct {
	firstName    string
	lastName     string
	emailAddress string
	password     string
}

type seedTask struct {
	ownerEmail  string
	title       string
	description string
	time        string
}

var seedUsers = []seedUser{
	{"Joe", "Smith", "joe@smith.com", "joepassword"},
	{"Sally", "Jones", "sally@jones.com", "sallypassword"},
}

var seedTasks = []seedTask{
	{"joe@smith.com", "Water the garden", "Front beds and the tomato planters.", "8:00 AM"},
	{"joe@smith.com", "Return library books", "Three due this Friday.", "5:30 PM"},
	{"sally@jones.com", "Book dentist appointment", "Ask about the Thursday evening slot.", "12:00 PM"},
}

func main() {
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	sqlDB, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "postgres")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// tasks references users, so it goes first
	sugar.Info("dropping existing tables")
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS tasks`); err != nil {
		sugar.Fatalf("drop tasks: %v", err)
	}
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS users`); err != nil {
		sugar.Fatalf("drop users: %v", err)
	}

	users := userrepo.NewUserRepo(db)
	tasks := taskrepo.NewTaskRepo(db)

	sugar.Info("creating tables")
	if err := users.EnsureTable(ctx); err != nil {
		sugar.Fatalf("create users table: %v", err)
	}
	if err := tasks.EnsureTable(ctx); err != nil {
		sugar.Fatalf("create tasks table: %v", err)
	}

	sugar.Info("hashing seed passwords and creating users")
	hasher := auth.BcryptHasher{Cost: 10}
	idsByEmail := map[string]int64{}
	for _, su := range seedUsers {
		hash, err := hasher.Hash(su.password)
		if err != nil {
			sugar.Fatalf("hash password for %s: %v", su.emailAddress, err)
		}
		u := &userentity.User{
			FirstName:    su.firstName,
			LastName:     su.lastName,
			EmailAddress: su.emailAddress,
			PasswordHash: hash,
		}
		id, err := users.Create(ctx, u)
		if err != nil {
			sugar.Fatalf("create user %s: %v", su.emailAddress, err)
		}
		idsByEmail[su.emailAddress] = id
		sugar.Infow("seeded user", "email", su.emailAddress, "id", id)
	}

	sugar.Info("creating tasks")
	for _, st := range seedTasks {
		ownerID, ok := idsByEmail[st.ownerEmail]
		if !ok {
			sugar.Fatalf("task %q references unknown user %s", st.title, st.ownerEmail)
		}
		t := &taskentity.Task{
			Title:       st.title,
			Description: st.description,
			Time:        st.time,
			UserID:      ownerID,
		}
		if _, err := tasks.Create(ctx, t); err != nil {
			sugar.Fatalf("create task %q: %v", st.title, err)
		}
	}

	sugar.Info("database successfully initialized")
}
