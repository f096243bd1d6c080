package model

// Student is a student record keyed by its NIM.
type Student struct {
	Nim     string `json:"nim"     gorm:"primaryKey;column:nim" bson:"_id"`
	Nisn    string `json:"nisn"    gorm:"column:nisn;not null"  bson:"nisn"`
	Name    string `json:"name"    gorm:"column:name;not null"  bson:"name"`
	Email   string `json:"email"   gorm:"column:email;not null" bson:"email"`
	Address string `json:"address" gorm:"column:address;not null" bson:"address"`
	Phone   string `json:"phone"   gorm:"column:phone;not null" bson:"phone"`
}

func (Student) TableName() string { return "students" }

// StudentField names a validated student field.
type StudentField string

const (
	FieldName    StudentField = "name"
	FieldEmail   StudentField = "email"
	FieldAddress StudentField = "address"
	FieldNim     StudentField = "nim"
	FieldNisn    StudentField = "nisn"
	FieldPhone   StudentField = "phone"
)

// StudentUpdate holds the mutable fields of a student; nim is never changed.
type StudentUpdate struct {
	Nisn    string
	Name    string
	Email   string
	Address string
	Phone   string
}

// Apply returns s with the update's fields copied in.
func (u StudentUpdate) Apply(s Student) Student {
	s.Nisn = u.Nisn
	s.Name = u.Name
	s.Email = u.Email
	s.Address = u.Address
	s.Phone = u.Phone
	return s
}
