package model

// Teacher is an administrative account. Rows are immutable after registration.
type Teacher struct {
	Username     string `json:"username" gorm:"primaryKey;column:username"      bson:"_id"`
	PasswordHash string `json:"-"        gorm:"column:password;not null"       bson:"password"`
}

func (Teacher) TableName() string { return "teachers" }

// TeacherView is the public shape of a teacher; it never carries the password hash.
type TeacherView struct {
	Username string `json:"username"`
}

func (t *Teacher) View() TeacherView {
	return TeacherView{Username: t.Username}
}
