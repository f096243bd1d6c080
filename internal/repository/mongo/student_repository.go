package mongo

import (
	"context"

	"github.com/duccv/student-service/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type StudentRepository struct {
	coll *mongo.Collection
}

func NewStudentRepository(coll *mongo.Collection) *StudentRepository {
	return &StudentRepository{coll: coll}
}

func byNim(nim string) bson.D {
	return bson.D{{Key: "_id", Value: nim}}
}

func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate("list students", err)
	}
	students := []model.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, translate("decode students", err)
	}
	return students, nil
}

func (r *StudentRepository) Find(ctx context.Context, nim string) (model.Student, error) {
	var s model.Student
	if err := r.coll.FindOne(ctx, byNim(nim)).Decode(&s); err != nil {
		return model.Student{}, translate("get student", err)
	}
	return s, nil
}

func (r *StudentRepository) Create(ctx context.Context, student model.Student) error {
	if _, err := r.coll.InsertOne(ctx, student); err != nil {
		return translate("create student", err)
	}
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, nim string, u model.StudentUpdate) (model.Student, error) {
	set := bson.D{
		{Key: "nisn", Value: u.Nisn},
		{Key: "name", Value: u.Name},
		{Key: "email", Value: u.Email},
		{Key: "address", Value: u.Address},
		{Key: "phone", Value: u.Phone},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var s model.Student
	err := r.coll.FindOneAndUpdate(ctx, byNim(nim), bson.D{{Key: "$set", Value: set}}, opts).Decode(&s)
	if err != nil {
		return model.Student{}, translate("update student", err)
	}
	return s, nil
}

func (r *StudentRepository) Delete(ctx context.Context, nim string) (model.Student, error) {
	var s model.Student
	if err := r.coll.FindOneAndDelete(ctx, byNim(nim)).Decode(&s); err != nil {
		return model.Student{}, translate("delete student", err)
	}
	return s, nil
}
