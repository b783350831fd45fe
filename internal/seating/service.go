package seating

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Service allocates seats out of a Redis-backed pool
type Service interface {
	ReserveSeats(ctx context.Context, count int) ([]string, error)
	AssignSeatsToAccount(ctx context.Context, accountID int64, seatIDs []string) error
	ReleaseSeats(ctx context.Context, accountID int64, seatIDs []string) error

	SeedSeats(ctx context.Context, rows, seatsPerRow int) (int, error)
	ResetPool(ctx context.Context) error
	AccountSeats(ctx context.Context, accountID int64) ([]string, error)
	Availability(ctx context.Context) (*Availability, error)
}

type service struct {
	client *redis.Client
	atomic *AtomicRedisOperations
}

// NewService creates a seating service on top of a Redis client
func NewService(client *redis.Client) Service {
	return &service{
		client: client,
		atomic: NewAtomicRedisOperations(client),
	}
}

func (s *service) ReserveSeats(ctx context.Context, count int) ([]string, error) {
	if count < 0 {
		return nil, ErrInvalidSeatCount
	}
	if count == 0 {
		return []string{}, nil
	}

	seats, err := s.atomic.AtomicReserveSeats(ctx, count)
	if err != nil {
		return nil, err
	}
	sortSeats(seats)
	return seats, nil
}

func (s *service) AssignSeatsToAccount(ctx context.Context, accountID int64, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	return s.atomic.AtomicAssignSeats(ctx, accountID, seatIDs)
}

func (s *service) ReleaseSeats(ctx context.Context, accountID int64, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	if _, err := s.atomic.AtomicReleaseSeats(ctx, accountID, seatIDs); err != nil {
		return err
	}
	return nil
}

// SeedSeats adds rows x seatsPerRow seats to the pool. Seats already
// reserved or assigned are left alone. Returns the number of seats added.
func (s *service) SeedSeats(ctx context.Context, rows, seatsPerRow int) (int, error) {
	if rows < 1 || seatsPerRow < 1 {
		return 0, fmt.Errorf("rows and seats per row must be positive")
	}

	owned, err := s.client.HKeys(ctx, keyOwners).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to load seat owners: %w", err)
	}
	reserved, err := s.client.SMembers(ctx, keyReserved).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to load reserved seats: %w", err)
	}

	taken := make(map[string]bool, len(owned)+len(reserved))
	for _, seatID := range append(owned, reserved...) {
		taken[seatID] = true
	}

	var members []interface{}
	for row := 0; row < rows; row++ {
		for position := 1; position <= seatsPerRow; position++ {
			seatID := SeatID(row, position)
			if !taken[seatID] {
				members = append(members, seatID)
			}
		}
	}
	if len(members) == 0 {
		return 0, nil
	}

	added, err := s.client.SAdd(ctx, keyAvailable, members...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to seed seats: %w", err)
	}
	return int(added), nil
}

// ResetPool drops every seat, reservation and assignment
func (s *service) ResetPool(ctx context.Context) error {
	keys := []string{keyAvailable, keyReserved, keyOwners}

	iter := s.client.Scan(ctx, 0, keyAccount+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan account seat keys: %w", err)
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset seat pool: %w", err)
	}
	return nil
}

func (s *service) AccountSeats(ctx context.Context, accountID int64) ([]string, error) {
	seats, err := s.client.SMembers(ctx, accountKey(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get account seats: %w", err)
	}
	sortSeats(seats)
	return seats, nil
}

func (s *service) Availability(ctx context.Context) (*Availability, error) {
	pipe := s.client.Pipeline()
	available := pipe.SCard(ctx, keyAvailable)
	reserved := pipe.SCard(ctx, keyReserved)
	assigned := pipe.HLen(ctx, keyOwners)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to read seat availability: %w", err)
	}

	return &Availability{
		Available: available.Val(),
		Reserved:  reserved.Val(),
		Assigned:  assigned.Val(),
	}, nil
}

// sortSeats orders seats by row then position so A2 sorts before A10
func sortSeats(seats []string) {
	sort.Slice(seats, func(i, j int) bool {
		ri, pi := splitSeatID(seats[i])
		rj, pj := splitSeatID(seats[j])
		if len(ri) != len(rj) {
			return len(ri) < len(rj)
		}
		if ri != rj {
			return ri < rj
		}
		return pi < pj
	})
}

func splitSeatID(seatID string) (string, int) {
	i := 0
	for i < len(seatID) && (seatID[i] < '0' || seatID[i] > '9') {
		i++
	}
	position := 0
	for _, c := range seatID[i:] {
		if c < '0' || c > '9' {
			break
		}
		position = position*10 + int(c-'0')
	}
	return seatID[:i], position
}
