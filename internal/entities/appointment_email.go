package entities

type AppointmentEmailData struct {
	UserName      string
	Code          string
	ServiceName   string
	ServicePrice  string
	BarberName    string
	DateFormatted string
	TimeFormatted string
	Status        string
	CurrentYear   int
}
