package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection         *mongo.Collection
	FacilitiesCollection   *mongo.Collection
	RoomsCollection        *mongo.Collection
	ResourcesCollection    *mongo.Collection
	BookingsCollection     *mongo.Collection
	AvailabilityCollection *mongo.Collection
	InvitationsCollection  *mongo.Collection
	Client                 *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("confhub")
	UserCollection = database.Collection("users")
	FacilitiesCollection = database.Collection("facilities")
	RoomsCollection = database.Collection("rooms")
	ResourcesCollection = database.Collection("resources")
	BookingsCollection = database.Collection("bookings")
	AvailabilityCollection = database.Collection("availability")
	InvitationsCollection = database.Collection("invitations")
}

// EnsureBookingIndexes creates a unique index on (roomId, startTime) so that
// two requests racing through the conflict check cannot both insert a booking
// for the exact same slot. Overlapping-but-unequal intervals can still slip
// through the read-then-write gap; that race is accepted, not solved.
func EnsureBookingIndexes() error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "roomId", Value: 1},
			{Key: "startTime", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{
			"status": bson.M{"$in": []string{"pending", "confirmed"}},
		}),
	}
	_, err := BookingsCollection.Indexes().CreateOne(context.Background(), indexModel)
	return err
}

// EnsureInvitationIndexes prevents duplicate invites for the same booking/email.
func EnsureInvitationIndexes() error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "bookingId", Value: 1},
			{Key: "inviteeEmail", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, err := InvitationsCollection.Indexes().CreateOne(context.Background(), indexModel)
	return err
}
