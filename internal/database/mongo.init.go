package database

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"delivery_marketplace/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections creates any missing collection in db.
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	for _, name := range names {
		if have[name] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s does not exist, creating", name)
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}

// indexSpec is one index derived from a model's index tags.
type indexSpec struct {
	Name    string
	Keys    bson.D
	Unique  bool
	Sparse  bool
	TTL     *int32
	Text    bool
	Partial bson.M
}

func (s indexSpec) options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTL != nil {
		opts.SetExpireAfterSeconds(*s.TTL)
	}
	if s.Partial != nil {
		opts.SetPartialFilterExpression(s.Partial)
	}
	return opts
}

// parseOrder reads the sort direction (order:-1) from a tag entry.
func parseOrder(entry map[string]string) int {
	if entry["order"] == "-1" {
		return -1
	}
	return 1
}

// parseIndexTag splits `index:"single:1,order:-1;unique,sparse"` into entries.
func parseIndexTag(tag string) []map[string]string {
	var result []map[string]string
	for _, part := range strings.Split(tag, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			kv := strings.SplitN(strings.TrimSpace(sub), ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		result = append(result, entry)
	}
	return result
}

// bsonFieldName returns the stored field name, without options like omitempty.
func bsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("bson"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// buildIndexSpecs reads index tags from a model struct.
//
// Supported entries: single[:1], order:-1, unique, sparse, partial[:<bson type>]
// (unique only among documents where the field is set, or has that type),
// ttl:<seconds>, text, compound:<name>.
// A compound group whose name contains "_unique" is unique.
func buildIndexSpecs(model interface{}) ([]indexSpec, error) {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var specs []indexSpec
	compound := map[string]*indexSpec{}
	var compoundOrder []string

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		name := bsonFieldName(field)
		if name == "" {
			continue
		}

		for _, entry := range parseIndexTag(tag) {
			_, sparse := entry["sparse"]
			partialType, partial := entry["partial"]

			if _, ok := entry["text"]; ok {
				specs = append(specs, indexSpec{Name: name + "_text", Keys: bson.D{{Key: name, Value: "text"}}, Text: true})
			}
			if _, ok := entry["single"]; ok {
				specs = append(specs, indexSpec{Name: name + "_single", Keys: bson.D{{Key: name, Value: parseOrder(entry)}}})
			}
			if _, ok := entry["unique"]; ok {
				spec := indexSpec{Name: name + "_unique", Keys: bson.D{{Key: name, Value: 1}}, Unique: true, Sparse: sparse}
				if partial {
					spec.Sparse = false
					spec.Partial = bson.M{name: bson.M{"$exists": true}}
					if partialType != "" {
						spec.Partial = bson.M{name: bson.M{"$type": partialType}}
					}
				}
				specs = append(specs, spec)
			}
			if ttlValue, ok := entry["ttl"]; ok {
				ttl, err := strconv.Atoi(ttlValue)
				if err != nil {
					return nil, fmt.Errorf("invalid ttl %q on %s: %w", ttlValue, name, err)
				}
				seconds := int32(ttl)
				specs = append(specs, indexSpec{Name: name + "_ttl", Keys: bson.D{{Key: name, Value: 1}}, TTL: &seconds})
			}
			if group, ok := entry["compound"]; ok {
				spec, exists := compound[group]
				if !exists {
					spec = &indexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compound[group] = spec
					compoundOrder = append(compoundOrder, group)
				}
				spec.Keys = append(spec.Keys, bson.E{Key: name, Value: parseOrder(entry)})
				if sparse {
					spec.Sparse = true
				}
			}
		}
	}

	for _, group := range compoundOrder {
		specs = append(specs, *compound[group])
	}
	return specs, nil
}

func keyValueAsInt(v interface{}) (int, bool) {
	switch ev := v.(type) {
	case int:
		return ev, true
	case int32:
		return int(ev), true
	case int64:
		return int(ev), true
	case float64:
		return int(ev), true
	}
	return 0, false
}

// compareIndex reports whether an existing index already matches spec.
func compareIndex(existing bson.M, spec indexSpec) bool {
	var existingKeys bson.M
	switch k := existing["key"].(type) {
	case bson.M:
		existingKeys = k
	case bson.D:
		existingKeys = k.Map()
	default:
		return false
	}

	if spec.Text {
		// text indexes are stored as {_fts: "text", _ftsx: 1}
		_, ok := existingKeys["_fts"]
		return ok
	}
	if len(existingKeys) != len(spec.Keys) {
		return false
	}
	for _, key := range spec.Keys {
		ev, ok := existingKeys[key.Key]
		if !ok {
			return false
		}
		want, isInt := key.Value.(int)
		if isInt {
			got, ok := keyValueAsInt(ev)
			if !ok || got != want {
				return false
			}
		} else if ev != key.Value {
			return false
		}
	}

	unique, _ := existing["unique"].(bool)
	if unique != spec.Unique {
		return false
	}
	_, hasPartial := existing["partialFilterExpression"]
	if hasPartial != (spec.Partial != nil) {
		return false
	}
	if spec.TTL != nil {
		got, ok := keyValueAsInt(existing["expireAfterSeconds"])
		if !ok || int32(got) != *spec.TTL {
			return false
		}
	}
	return true
}

func checkAndReplaceIndex(ctx context.Context, collection *mongo.Collection, existing map[string]bson.M, spec indexSpec) error {
	log := logger.GetAppLogger()
	if current, ok := existing[spec.Name]; ok {
		if compareIndex(current, spec) {
			return nil
		}
		if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
			return fmt.Errorf("failed to drop index %s: %w", spec.Name, err)
		}
		log.Infof("Dropped outdated index %s.%s", collection.Name(), spec.Name)
	}

	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: spec.options()}); err != nil {
		return fmt.Errorf("failed to create index %s: %w", spec.Name, err)
	}
	log.Infof("Created index %s.%s", collection.Name(), spec.Name)
	return nil
}

// CreateIndexes syncs the collection's indexes with the model's index tags.
// Unique indexes named <field>_unique that the model no longer declares are dropped.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	specs, err := buildIndexSpecs(model)
	if err != nil {
		return err
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existing := map[string]bson.M{}
	for cursor.Next(ctx) {
		var info bson.M
		if err := cursor.Decode(&info); err != nil {
			return fmt.Errorf("failed to decode index info: %w", err)
		}
		if name, ok := info["name"].(string); ok {
			existing[name] = info
		}
	}

	declared := map[string]bool{}
	for _, spec := range specs {
		declared[spec.Name] = true
		if err := checkAndReplaceIndex(ctx, collection, existing, spec); err != nil {
			return err
		}
	}

	for name, info := range existing {
		if !strings.HasSuffix(name, "_unique") || declared[name] {
			continue
		}
		if unique, ok := info["unique"].(bool); ok && unique {
			if _, err := collection.Indexes().DropOne(ctx, name); err != nil {
				logger.GetAppLogger().WithError(err).Warnf("Failed to drop stale unique index %s", name)
				continue
			}
			logger.GetAppLogger().Infof("Dropped stale unique index %s.%s", collection.Name(), name)
		}
	}
	return nil
}
