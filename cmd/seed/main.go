// Command seed imports or wipes the fixture data under _data/. Fixtures
// carry fixed object ids so bootcamps, courses and users reference each
// other; passwords are stored in the clear in users.json and hashed here.
//
//	go run ./cmd/seed -import
//	go run ./cmd/seed -delete
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/gosimple/slug"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mucyobrian123/DevCamp/internal/config"
	"github.com/Mucyobrian123/DevCamp/internal/database"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

type bootcampFixture struct {
	ID            primitive.ObjectID `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Website       string             `json:"website"`
	Phone         string             `json:"phone"`
	Email         string             `json:"email"`
	Location      *models.Location   `json:"location"`
	Careers       []string           `json:"careers"`
	Housing       bool               `json:"housing"`
	JobAssistance bool               `json:"job_assistance"`
	JobGuarantee  bool               `json:"job_guarantee"`
	AcceptGI      bool               `json:"accept_gi"`
	UserID        primitive.ObjectID `json:"user_id"`
}

type courseFixture struct {
	ID                   primitive.ObjectID `json:"id"`
	Title                string             `json:"title"`
	Description          string             `json:"description"`
	Weeks                int                `json:"weeks"`
	Tuition              float64            `json:"tuition"`
	MinimumSkill         string             `json:"minimum_skill"`
	ScholarshipAvailable bool               `json:"scholarship_available"`
	BootcampID           primitive.ObjectID `json:"bootcamp_id"`
	UserID               primitive.ObjectID `json:"user_id"`
}

type userFixture struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Role     string             `json:"role"`
	Password string             `json:"password"`
}

func main() {
	doImport := flag.Bool("import", false, "import fixture data")
	doDelete := flag.Bool("delete", false, "delete all data")
	dataDir := flag.String("data", "_data", "fixture directory")
	flag.Parse()

	if *doImport == *doDelete {
		log.Fatal("pass exactly one of -import or -delete")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables:", err)
	}
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.App.Env)
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()

	db, client, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if *doDelete {
		if err := wipe(ctx, db); err != nil {
			sugar.Fatal(err)
		}
		sugar.Info("All data deleted")
		return
	}

	if err := database.EnsureIndexes(ctx, db); err != nil {
		sugar.Fatalf("failed to ensure indexes: %v", err)
	}
	if err := importAll(ctx, db, *dataDir, sugar.Infof); err != nil {
		sugar.Fatal(err)
	}
	sugar.Info("Fixture data imported")
}

func wipe(ctx context.Context, db *mongo.Database) error {
	for _, col := range []string{database.ColBootcamps, database.ColCourses, database.ColUsers} {
		if _, err := db.Collection(col).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("wipe %s: %w", col, err)
		}
	}
	return nil
}

func importAll(ctx context.Context, db *mongo.Database, dir string, infof func(string, ...any)) error {
	var users []userFixture
	if err := readFixture(dir+"/users.json", &users); err != nil {
		return err
	}
	userDocs := make([]any, 0, len(users))
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		userDocs = append(userDocs, models.User{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Password:  string(hash),
			CreatedAt: time.Now().UTC(),
		})
	}
	if _, err := db.Collection(database.ColUsers).InsertMany(ctx, userDocs); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	infof("Imported %d users", len(userDocs))

	var bootcamps []bootcampFixture
	if err := readFixture(dir+"/bootcamps.json", &bootcamps); err != nil {
		return err
	}
	bootcampDocs := make([]any, 0, len(bootcamps))
	for _, f := range bootcamps {
		bootcampDocs = append(bootcampDocs, models.Bootcamp{
			ID:            f.ID,
			Name:          f.Name,
			Slug:          slug.Make(f.Name),
			Description:   f.Description,
			Website:       f.Website,
			Phone:         f.Phone,
			Email:         f.Email,
			Location:      f.Location,
			Careers:       f.Careers,
			Photo:         models.DefaultPhoto,
			Housing:       f.Housing,
			JobAssistance: f.JobAssistance,
			JobGuarantee:  f.JobGuarantee,
			AcceptGI:      f.AcceptGI,
			CreatedAt:     time.Now().UTC(),
			UserID:        f.UserID,
		})
	}
	if _, err := db.Collection(database.ColBootcamps).InsertMany(ctx, bootcampDocs); err != nil {
		return fmt.Errorf("insert bootcamps: %w", err)
	}
	infof("Imported %d bootcamps", len(bootcampDocs))

	var courses []courseFixture
	if err := readFixture(dir+"/courses.json", &courses); err != nil {
		return err
	}
	courseDocs := make([]any, 0, len(courses))
	for _, f := range courses {
		courseDocs = append(courseDocs, models.Course{
			ID:                   f.ID,
			Title:                f.Title,
			Description:          f.Description,
			Weeks:                f.Weeks,
			Tuition:              f.Tuition,
			MinimumSkill:         f.MinimumSkill,
			ScholarshipAvailable: f.ScholarshipAvailable,
			BootcampID:           f.BootcampID,
			UserID:               f.UserID,
			CreatedAt:            time.Now().UTC(),
		})
	}
	if _, err := db.Collection(database.ColCourses).InsertMany(ctx, courseDocs); err != nil {
		return fmt.Errorf("insert courses: %w", err)
	}
	infof("Imported %d courses", len(courseDocs))

	return recomputeAverages(ctx, db, bootcamps, courses)
}

// recomputeAverages sets average_cost the same way the API does after a
// course write: ceil(mean tuition / 10) * 10.
func recomputeAverages(ctx context.Context, db *mongo.Database, bootcamps []bootcampFixture, courses []courseFixture) error {
	sums := make(map[primitive.ObjectID][2]float64, len(bootcamps))
	for _, c := range courses {
		s := sums[c.BootcampID]
		sums[c.BootcampID] = [2]float64{s[0] + c.Tuition, s[1] + 1}
	}
	for id, s := range sums {
		avg := s[0] / s[1]
		cost := math.Ceil(avg/10) * 10
		_, err := db.Collection(database.ColBootcamps).UpdateOne(ctx,
			bson.M{"_id": id}, bson.M{"$set": bson.M{"average_cost": cost}})
		if err != nil {
			return fmt.Errorf("update average cost: %w", err)
		}
	}
	return nil
}

func readFixture(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
