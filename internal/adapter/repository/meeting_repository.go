package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

const (
	meetingCollection = "audio_meetings"
	// legacyResearchCollection holds research written before it was embedded in meetings
	legacyResearchCollection = "participant_research"
)

// MeetingRepository implements the meeting repository interface on MongoDB
type MeetingRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewMeetingRepository creates the repository and ensures its indexes
func NewMeetingRepository(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*MeetingRepository, error) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "meetingId", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	if _, err := db.Collection(meetingCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create meeting indexes: %w", wrapStoreErr(err))
	}

	return &MeetingRepository{db: db, logger: logger}, nil
}

func (r *MeetingRepository) meetings() *mongo.Collection {
	return r.db.Collection(meetingCollection)
}

// Create inserts a meeting together with its embedded participant research
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	now := time.Now().UTC()
	if meeting.ID.IsZero() {
		meeting.ID = bson.NewObjectID()
	}
	if meeting.Status == "" {
		meeting.Status = entities.MeetingStatusUploaded
	}
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	if _, err := r.meetings().InsertOne(ctx, meeting); err != nil {
		return fmt.Errorf("failed to insert meeting: %w", wrapStoreErr(err))
	}
	return nil
}

// Resolve is the single lookup path for meeting references. Canonical ObjectID hex strings
// are tried first, then the legacy timestamp id field.
func (r *MeetingRepository) Resolve(ctx context.Context, ref string) (*entities.Meeting, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, entities.ErrMeetingNotFound
	}

	if oid, err := bson.ObjectIDFromHex(ref); err == nil {
		meeting, err := r.findOne(ctx, bson.M{"_id": oid})
		if !errors.Is(err, entities.ErrMeetingNotFound) {
			return meeting, err
		}
	}

	meeting, err := r.findOne(ctx, bson.M{"meetingId": ref})
	if err == nil && r.logger != nil {
		r.logger.Debug("meeting resolved by legacy id", zap.String("legacy_id", ref))
	}
	return meeting, err
}

func (r *MeetingRepository) findOne(ctx context.Context, filter bson.M) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.meetings().FindOne(ctx, filter).Decode(&meeting); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", wrapStoreErr(err))
	}
	return &meeting, nil
}

// Complete writes a processed recording onto an unfinished meeting. The status filter makes
// the write conditional, so a meeting completed by a concurrent upload is never overwritten.
func (r *MeetingRepository) Complete(ctx context.Context, id bson.ObjectID, c entities.MeetingCompletion) (*entities.Meeting, error) {
	set := bson.M{
		"transcript": c.Transcript,
		"summary":    c.Summary,
		"type":       c.Type,
		"status":     entities.MeetingStatusCompleted,
		"updatedAt":  time.Now().UTC(),
	}
	optional := map[string]string{
		"filename":    c.Filename,
		"mimeType":    c.MimeType,
		"language":    c.Language,
		"audioObject": c.AudioObject,
	}
	for field, value := range optional {
		if value != "" {
			set[field] = value
		}
	}

	update := bson.M{"$set": set}
	if len(c.NewParticipants) > 0 {
		update["$push"] = bson.M{"participants": bson.M{"$each": c.NewParticipants}}
	}

	filter := bson.M{
		"_id": id,
		"status": bson.M{"$nin": entities.StatusesBlocking(entities.MeetingStatusCompleted)},
	}

	var meeting entities.Meeting
	err := r.meetings().
		FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&meeting)
	if err == nil {
		if err := r.claimOwner(ctx, &meeting, c.OwnerID, c.OwnerEmail); err != nil {
			return nil, err
		}
		return &meeting, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to complete meeting: %w", wrapStoreErr(err))
	}

	n, cerr := r.meetings().CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return nil, fmt.Errorf("failed to check meeting: %w", wrapStoreErr(cerr))
	}
	if n > 0 {
		return nil, entities.ErrMeetingCompleted
	}
	return nil, entities.ErrMeetingNotFound
}

// claimOwner records the owner of a meeting that has none. An existing owner is never replaced.
func (r *MeetingRepository) claimOwner(ctx context.Context, meeting *entities.Meeting, ownerID, ownerEmail string) error {
	if ownerID == "" && ownerEmail == "" {
		return nil
	}
	unset := []interface{}{nil, ""}
	filter := bson.M{
		"_id":       meeting.ID,
		"ownerId":   bson.M{"$in": unset},
		"userEmail": bson.M{"$in": unset},
	}
	set := bson.M{}
	if ownerID != "" {
		set["ownerId"] = ownerID
	}
	if ownerEmail != "" {
		set["userEmail"] = ownerEmail
	}

	res, err := r.meetings().UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set meeting owner: %w", wrapStoreErr(err))
	}
	if res.MatchedCount > 0 {
		meeting.OwnerID, meeting.OwnerEmail = ownerID, ownerEmail
	}
	return nil
}

// ListByOwner returns the user's meetings, newest first. Rows written before owner ids
// were recorded are matched by owner email.
func (r *MeetingRepository) ListByOwner(ctx context.Context, ownerID, ownerEmail string) ([]*entities.Meeting, error) {
	owners := bson.A{bson.M{"ownerId": ownerID}}
	if ownerEmail != "" {
		owners = append(owners, bson.M{"ownerId": bson.M{"$exists": false}, "userEmail": ownerEmail})
	}

	cursor, err := r.meetings().Find(ctx,
		bson.M{"$or": owners},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", wrapStoreErr(err))
	}
	defer cursor.Close(ctx)

	meetings := make([]*entities.Meeting, 0)
	if err := cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", wrapStoreErr(err))
	}
	return meetings, nil
}

// Participants returns the research embedded in the meeting, falling back to the
// legacy collection, which keyed research by either the ObjectID or its string form.
func (r *MeetingRepository) Participants(ctx context.Context, meeting *entities.Meeting) ([]entities.ParticipantResearch, error) {
	if meeting == nil {
		return nil, entities.ErrMeetingNotFound
	}
	if len(meeting.Participants) > 0 {
		return meeting.Participants, nil
	}

	ids := bson.A{}
	if !meeting.ID.IsZero() {
		ids = append(ids, meeting.ID, meeting.ID.Hex())
	}
	if meeting.LegacyID != "" {
		ids = append(ids, meeting.LegacyID)
	}
	if len(ids) == 0 {
		return []entities.ParticipantResearch{}, nil
	}

	cursor, err := r.db.Collection(legacyResearchCollection).Find(ctx, bson.M{"meetingId": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find legacy research: %w", wrapStoreErr(err))
	}
	defer cursor.Close(ctx)

	research := make([]entities.ParticipantResearch, 0)
	if err := cursor.All(ctx, &research); err != nil {
		return nil, fmt.Errorf("failed to decode legacy research: %w", wrapStoreErr(err))
	}
	return research, nil
}

// wrapStoreErr tags connectivity failures so callers can report the store as unavailable
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	return err
}
