package mongo

import (
	"fmt"

	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", storage.ErrInvalidID, id)
	}

	return oid, nil
}

func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}

	return fmt.Sprint(id)
}

// toDocument converts driver values into plain JSON-friendly ones so that
// documents look the same whichever driver produced them.
func toDocument(m bson.M) models.Document {
	doc := make(models.Document, len(m))
	for k, v := range m {
		doc[k] = plain(v)
	}

	return doc
}

func plain(v any) any {
	switch v := v.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC()
	case bson.M:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = plain(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(v))
		for _, e := range v {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = plain(val)
		}
		return out
	default:
		return v
	}
}
