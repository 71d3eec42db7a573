package users

// User is a registered account. Name is the identity recorded as the owner
// of recipes; Email is what users log in with.
type User struct {
	Name     string `yaml:"name" json:"name"`
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"-"`
}
