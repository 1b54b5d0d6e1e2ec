package web

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"homelib/internal/library"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("isbn", validISBN)
}

func validISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")

	if len(isbn) == 10 {
		matched, _ := regexp.MatchString(`^\d{9}[\dX]$`, isbn)
		return matched
	}
	if len(isbn) == 13 {
		matched, _ := regexp.MatchString(`^\d{13}$`, isbn)
		return matched
	}
	return false
}

const dateLayout = "2006-01-02"

type authorForm struct {
	Name        string `validate:"required,max=200"`
	BirthDate   string `validate:"omitempty,datetime=2006-01-02"`
	DateOfDeath string `validate:"omitempty,datetime=2006-01-02"`
}

type bookForm struct {
	Title    string `validate:"required,max=300"`
	AuthorID string `validate:"required,number"`
	Year     string `validate:"omitempty,number"`
	ISBN     string `validate:"omitempty,isbn"`
	Rating   string
	CoverURL string `validate:"omitempty,max=500"`
}

// parseAuthorForm turns the submitted form into a NewAuthor. On a
// validation failure the second return value is the flash message to
// show and the input is unusable.
func parseAuthorForm(r *http.Request) (library.NewAuthor, string) {
	f := authorForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		BirthDate:   strings.TrimSpace(r.FormValue("birthdate")),
		DateOfDeath: strings.TrimSpace(r.FormValue("date_of_death")),
	}
	if err := validate.Struct(f); err != nil {
		return library.NewAuthor{}, authorFlash(err)
	}

	in := library.NewAuthor{Name: f.Name}
	if f.BirthDate != "" {
		t, _ := time.Parse(dateLayout, f.BirthDate)
		in.BirthDate = &t
	}
	if f.DateOfDeath != "" {
		t, _ := time.Parse(dateLayout, f.DateOfDeath)
		in.DateOfDeath = &t
	}
	return in, ""
}

func authorFlash(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "Failed to add author."
	}
	for _, e := range errs {
		if e.Field() == "Name" && e.Tag() == "required" {
			return "Author name cannot be empty."
		}
	}
	return "Failed to add author."
}

func parseBookForm(r *http.Request) (library.NewBook, string) {
	f := bookForm{
		Title:    strings.TrimSpace(r.FormValue("title")),
		AuthorID: strings.TrimSpace(r.FormValue("author_id")),
		Year:     strings.TrimSpace(r.FormValue("publication_year")),
		ISBN:     strings.TrimSpace(r.FormValue("isbn")),
		Rating:   strings.TrimSpace(r.FormValue("rating")),
		CoverURL: strings.TrimSpace(r.FormValue("cover_url")),
	}
	if err := validate.Struct(f); err != nil {
		return library.NewBook{}, bookFlash(err)
	}

	in := library.NewBook{
		Title:    f.Title,
		ISBN:     f.ISBN,
		CoverURL: f.CoverURL,
	}

	authorID, err := strconv.ParseInt(f.AuthorID, 10, 64)
	if err != nil {
		return library.NewBook{}, "Failed to add book."
	}
	in.AuthorID = authorID

	if f.Year != "" {
		year, err := strconv.Atoi(f.Year)
		if err != nil {
			return library.NewBook{}, "Publication year must be a number."
		}
		in.PublicationYear = &year
	}
	if f.Rating != "" {
		rating, err := strconv.ParseFloat(f.Rating, 64)
		if err != nil || rating < 0 || rating > 10 {
			return library.NewBook{}, "Rating must be a number between 0 and 10."
		}
		in.Rating = &rating
	}
	return in, ""
}

func bookFlash(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "Failed to add book."
	}
	for _, e := range errs {
		switch e.Field() {
		case "Title":
			if e.Tag() == "required" {
				return "Title and author are required."
			}
		case "AuthorID":
			return "Title and author are required."
		case "Year":
			return "Publication year must be a number."
		case "ISBN":
			return "ISBN must be a valid ISBN (10 or 13 digits)."
		}
	}
	return "Failed to add book."
}
