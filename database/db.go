package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// ─── Models ──────────────────────────────────────────────────────────────────

type Search struct {
	ID            string    `json:"id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departure_date"`
	ReturnDate    string    `json:"return_date"`
	Budget        float64   `json:"budget"`
	Passengers    int       `json:"passengers"`
	CreatedAt     time.Time `json:"created_at"`
}

type Itinerary struct {
	ID          string    `json:"id"`
	SearchID    string    `json:"search_id"`
	FlightsJSON string    `json:"flights_json"`
	HotelsJSON  string    `json:"hotels_json"`
	AISummary   string    `json:"ai_summary"`
	CreatedAt   time.Time `json:"created_at"`
}

// Plan is a stored AI vacation plan: the assembled composite serialized to
// JSON, plus which sections came from fallbacks (observability only).
type Plan struct {
	ID           string    `json:"id"`
	Destination  string    `json:"destination"`
	Budget       float64   `json:"budget"`
	Days         int       `json:"days"`
	PlanJSON     string    `json:"plan_json"`
	FallbackKeys string    `json:"fallback_keys"`
	PDFData      []byte    `json:"pdf_data,omitempty"`
	TravelerName string    `json:"traveler_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ─── Init ─────────────────────────────────────────────────────────────────────

func InitDB() {
	dsn := buildDSN()
	if dsn == "" {
		log.Println("⚠️  No database configured — plans and searches will not be persisted")
		return
	}

	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}

	DB.SetMaxOpenConns(10)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// The managed Postgres may take a moment to come up.
	for i := 0; i < 10; i++ {
		if err = DB.Ping(); err == nil {
			break
		}
		log.Printf("⏳ Waiting for database... attempt %d/10: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("❌ Failed to connect to database after retries: %v", err)
	}

	migrate()
	log.Println("✅ Database connected and migrated")
}

func buildDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}

	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "tripcraft")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, sslmode)
}

// ─── Migrations ───────────────────────────────────────────────────────────────

func migrate() {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id             TEXT PRIMARY KEY,
			origin         TEXT NOT NULL,
			destination    TEXT NOT NULL,
			departure_date TEXT NOT NULL,
			return_date    TEXT NOT NULL,
			budget         NUMERIC(12,2) NOT NULL,
			passengers     INTEGER DEFAULT 1,
			created_at     TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS itineraries (
			id           TEXT PRIMARY KEY,
			search_id    TEXT NOT NULL REFERENCES searches(id),
			flights_json TEXT,
			hotels_json  TEXT,
			ai_summary   TEXT,
			created_at   TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS plans (
			id            TEXT PRIMARY KEY,
			destination   TEXT NOT NULL,
			budget        NUMERIC(12,2) NOT NULL,
			days          INTEGER NOT NULL,
			plan_json     TEXT NOT NULL,
			fallback_keys TEXT,
			pdf_data      BYTEA,
			traveler_name TEXT,
			created_at    TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_itineraries_search_id
			ON itineraries(search_id)`,

		`CREATE INDEX IF NOT EXISTS idx_plans_created_at
			ON plans(created_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := DB.Exec(m); err != nil {
			log.Fatalf("❌ Migration failed: %v\nSQL: %s", err, m)
		}
	}
}

// ─── Write-behind ─────────────────────────────────────────────────────────────

// Persistence is a best-effort sink: a failed write logs and is forgotten,
// it never fails or delays a response already computed for the client.

func SaveSearchAsync(s *Search) {
	go func() {
		if DB == nil {
			return
		}
		if err := saveSearch(s); err != nil {
			log.Printf("❌ Failed to save search %s: %v", s.ID, err)
		}
	}()
}

func SaveItineraryAsync(i *Itinerary) {
	go func() {
		if DB == nil {
			return
		}
		if err := saveItinerary(i); err != nil {
			log.Printf("❌ Failed to save itinerary %s: %v", i.ID, err)
		}
	}()
}

func SavePlanAsync(p *Plan) {
	go func() {
		if DB == nil {
			return
		}
		if err := SavePlan(p); err != nil {
			log.Printf("❌ Failed to save plan %s: %v", p.ID, err)
		}
	}()
}

// ─── CRUD ─────────────────────────────────────────────────────────────────────

func saveSearch(s *Search) error {
	_, err := DB.Exec(`
		INSERT INTO searches (id, origin, destination, departure_date, return_date, budget, passengers)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Origin, s.Destination, s.DepartureDate, s.ReturnDate, s.Budget, s.Passengers)
	return err
}

func saveItinerary(i *Itinerary) error {
	_, err := DB.Exec(`
		INSERT INTO itineraries (id, search_id, flights_json, hotels_json, ai_summary)
		VALUES ($1, $2, $3, $4, $5)`,
		i.ID, i.SearchID, i.FlightsJSON, i.HotelsJSON, i.AISummary)
	return err
}

func SavePlan(p *Plan) error {
	if DB == nil {
		return fmt.Errorf("database not configured")
	}
	_, err := DB.Exec(`
		INSERT INTO plans (id, destination, budget, days, plan_json, fallback_keys, pdf_data, traveler_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Destination, p.Budget, p.Days, p.PlanJSON, p.FallbackKeys, p.PDFData, p.TravelerName)
	return err
}

func GetPlan(id string) (*Plan, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not configured")
	}
	p := &Plan{}
	err := DB.QueryRow(`
		SELECT id, destination, budget, days, plan_json, fallback_keys, pdf_data, traveler_name, created_at
		FROM plans WHERE id = $1`, id).
		Scan(&p.ID, &p.Destination, &p.Budget, &p.Days, &p.PlanJSON,
			&p.FallbackKeys, &p.PDFData, &p.TravelerName, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func UpdatePlanPDF(id string, pdfData []byte, travelerName string) error {
	if DB == nil {
		return fmt.Errorf("database not configured")
	}
	_, err := DB.Exec(`
		UPDATE plans SET pdf_data = $1, traveler_name = $2 WHERE id = $3`,
		pdfData, travelerName, id)
	return err
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
