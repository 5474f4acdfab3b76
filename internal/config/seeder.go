package config

import (
	"errors"
	"log"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/pkg/dateonly"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db    *gorm.DB
	today dateonly.Date
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, today dateonly.Date) *Seeder {
	return &Seeder{db: db, today: today}
}

// Run executes all seeders. Every step only inserts what is missing.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedCategories(); err != nil {
		return err
	}
	if err := s.seedAuthors(); err != nil {
		return err
	}
	if err := s.seedBooks(); err != nil {
		return err
	}
	if err := s.seedMembers(); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

func (s *Seeder) seedCategories() error {
	categories := []models.Category{
		{Name: "Fiction", Description: "Novels and short stories"},
		{Name: "Science Fiction", Description: "Speculative and futuristic fiction"},
		{Name: "History", Description: "Historical accounts and analysis"},
		{Name: "Computer Science", Description: "Programming, algorithms and systems"},
	}

	for _, c := range categories {
		var existing models.Category
		err := s.db.Where("name = ?", c.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(&c).Error; err != nil {
				return err
			}
			log.Printf("   Created category: %s", c.Name)
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedAuthors() error {
	authors := []models.Author{
		{FirstName: "Frank", LastName: "Herbert", BirthDate: datePtr("1920-10-08"), Nationality: "American"},
		{FirstName: "Ursula", LastName: "Le Guin", BirthDate: datePtr("1929-10-21"), Nationality: "American"},
		{FirstName: "Donald", LastName: "Knuth", BirthDate: datePtr("1938-01-10"), Nationality: "American"},
		{FirstName: "Mary", LastName: "Beard", BirthDate: datePtr("1955-01-01"), Nationality: "British"},
	}

	for _, a := range authors {
		var existing models.Author
		err := s.db.Where("first_name = ? AND last_name = ?", a.FirstName, a.LastName).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(&a).Error; err != nil {
				return err
			}
			log.Printf("   Created author: %s", a.FullName())
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedBooks() error {
	books := []struct {
		title, isbn, category, authorLastName, published string
	}{
		{"Dune", "9780441013593", "Science Fiction", "Herbert", "1965-08-01"},
		{"The Left Hand of Darkness", "9780441478125", "Science Fiction", "Le Guin", "1969-03-01"},
		{"The Art of Computer Programming, Vol. 1", "9780201896831", "Computer Science", "Knuth", "1968-01-01"},
		{"SPQR", "9781631492228", "History", "Beard", "2015-11-09"},
	}

	for _, b := range books {
		var count int64
		if err := s.db.Model(&models.Book{}).Where("isbn = ?", b.isbn).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		var category models.Category
		if err := s.db.Where("name = ?", b.category).First(&category).Error; err != nil {
			return err
		}
		var author models.Author
		if err := s.db.Where("last_name = ?", b.authorLastName).First(&author).Error; err != nil {
			return err
		}

		book := models.Book{
			Title:       b.title,
			ISBN:        b.isbn,
			PublishDate: datePtr(b.published),
			Language:    "English",
			CategoryID:  category.ID,
			Available:   true,
			Authors:     []models.Author{author},
		}
		if err := s.db.Omit("Category", "Authors.*").Create(&book).Error; err != nil {
			return err
		}
		log.Printf("   Created book: %s", book.Title)
	}
	return nil
}

func (s *Seeder) seedMembers() error {
	var count int64
	if err := s.db.Model(&models.Member{}).Where("email = ?", "demo.member@library.local").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	member := models.Member{
		FirstName:        "Demo",
		LastName:         "Member",
		Email:            "demo.member@library.local",
		Active:           true,
		RegistrationDate: s.today,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return err
	}
	log.Printf("   Created member: %s", member.Email)
	return nil
}

func datePtr(s string) *dateonly.Date {
	d := dateonly.MustParse(s)
	return &d
}
