package mongo

import (
	"context"

	"github.com/duccv/student-service/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type TeacherRepository struct {
	coll *mongo.Collection
}

func NewTeacherRepository(coll *mongo.Collection) *TeacherRepository {
	return &TeacherRepository{coll: coll}
}

func (r *TeacherRepository) Create(ctx context.Context, teacher model.Teacher) error {
	if _, err := r.coll.InsertOne(ctx, teacher); err != nil {
		return translate("create teacher", err)
	}
	return nil
}

func (r *TeacherRepository) FindByUsername(ctx context.Context, username string) (model.Teacher, error) {
	var t model.Teacher
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: username}}).Decode(&t); err != nil {
		return model.Teacher{}, translate("get teacher by username", err)
	}
	return t, nil
}
