package patient

// Patient maps to the patients table. The USN is the patient's unique
// enrollment number, assigned externally; it never changes after
// registration and every dependent record references it.
type Patient struct {
	USN      string `db:"usn" json:"usn"`
	FullName string `db:"full_name" json:"full_name"`
	Age      int    `db:"age" json:"age"`
	Gender   string `db:"gender" json:"gender"`
	Contact  string `db:"contact" json:"contact"`
	Address  string `db:"address" json:"address"`
}
