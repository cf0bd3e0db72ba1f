// Package seed fills a bookswap store with demo data through the service
// layer. It is intended for development and testing only.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/efreitasn/bookswap/internal/service"
)

// DemoPassword is the password every seeded user is registered with.
const DemoPassword = "bookswap123"

// Options controls how much data is generated. The same Seed produces the
// same names, titles and trade pairings.
type Options struct {
	Users  int
	Books  int
	Trades int
	Seed   int64
}

// Services are the services the seeder writes through.
type Services struct {
	Users  *service.UserService
	Books  *service.BookService
	Trades *service.TradeService
}

// Result reports what was created.
type Result struct {
	Users    []*domain.User
	Books    []*domain.Book
	Trades   []*domain.TradeRequest
	Answered int
}

// Seeder generates users, books and trade requests.
type Seeder struct {
	svcs   Services
	logger *slog.Logger
}

// New creates a Seeder.
func New(svcs Services, logger *slog.Logger) *Seeder {
	return &Seeder{svcs: svcs, logger: logger}
}

// Run creates opts.Users users, opts.Books books spread over them and
// opts.Trades trade requests between random pairs. Roughly a third of the
// trades are then accepted or rejected by their receivers.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users < 0 || opts.Books < 0 || opts.Trades < 0 {
		return nil, errors.New("seed counts must not be negative")
	}
	if opts.Books > 0 && opts.Users == 0 {
		return nil, errors.New("seeding books requires at least one user")
	}
	if opts.Trades > 0 && opts.Books == 0 {
		return nil, errors.New("seeding trades requires at least one book")
	}

	f := gofakeit.New(opts.Seed)
	res := &Result{}

	for i := range opts.Users {
		u, err := s.svcs.Users.Register(ctx, fakeUser(f, i))
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		res.Users = append(res.Users, u)
	}
	s.logger.Info("seeded users", "count", len(res.Users))

	owned := make(map[string][]*domain.Book, len(res.Users))
	for i := range opts.Books {
		owner := res.Users[f.Number(0, len(res.Users)-1)]
		b, err := s.svcs.Books.Create(ctx, owner.ID, fakeBook(f))
		if err != nil {
			return nil, fmt.Errorf("seed book %d: %w", i, err)
		}
		res.Books = append(res.Books, b)
		owned[owner.ID] = append(owned[owner.ID], b)
	}
	s.logger.Info("seeded books", "count", len(res.Books))

	for i := range opts.Trades {
		sender := res.Users[f.Number(0, len(res.Users)-1)]
		receiver := sender
		if len(res.Users) > 1 {
			for receiver.ID == sender.ID {
				receiver = res.Users[f.Number(0, len(res.Users)-1)]
			}
		}
		wants := pickBook(f, owned[receiver.ID], res.Books)
		gives := pickBook(f, owned[sender.ID], res.Books)

		tr, err := s.svcs.Trades.Create(ctx, service.CreateTradeRequest{
			SenderID:    sender.ID,
			ReceiverID:  receiver.ID,
			SenderWants: wants.ID,
			SenderGives: gives.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("seed trade %d: %w", i, err)
		}

		if f.Number(0, 2) == 0 {
			status := string(domain.TradeStatusAccepted)
			if f.Bool() {
				status = string(domain.TradeStatusRejected)
			}
			tr, err = s.svcs.Trades.UpdateStatus(ctx, receiver.ID, tr.ID, status)
			if err != nil {
				return nil, fmt.Errorf("answer seeded trade %d: %w", i, err)
			}
			res.Answered++
		}
		res.Trades = append(res.Trades, tr)
	}
	s.logger.Info("seeded trades", "count", len(res.Trades), "answered", res.Answered)

	return res, nil
}

// pickBook prefers one of preferred and falls back to any book.
func pickBook(f *gofakeit.Faker, preferred, all []*domain.Book) *domain.Book {
	if len(preferred) > 0 {
		return preferred[f.Number(0, len(preferred)-1)]
	}
	return all[f.Number(0, len(all)-1)]
}

// fakeUser builds a registration with a username and email unique within
// one run.
func fakeUser(f *gofakeit.Faker, i int) service.RegisterUserRequest {
	username := fmt.Sprintf("%s_%d", f.Username(), i)
	return service.RegisterUserRequest{
		Name:     f.Name(),
		Username: username,
		Email:    username + "@" + f.DomainName(),
		Password: DemoPassword,
	}
}

func fakeBook(f *gofakeit.Faker) service.BookDetails {
	rating := math.Round(f.Float64Range(0, 5)*10) / 10
	published := f.DateRange(
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	return service.BookDetails{
		Title:         f.BookTitle(),
		Author:        f.BookAuthor(),
		Genre:         f.BookGenre(),
		Description:   f.Sentence(12),
		Rating:        &rating,
		ReadingTime:   fmt.Sprintf("%d hours", f.Number(2, 30)),
		Condition:     f.RandomString([]string{"new", "like new", "good", "worn"}),
		DatePublished: published.Format(time.DateOnly),
		ISBN:          f.Numerify("978##########"),
		CoverImage:    fmt.Sprintf("https://picsum.photos/seed/%s/300/450", f.UUID()),
	}
}
