package queue

// Stream and group names. Producers (scraper bots) publish vacancy events
// onto StreamName; unprocessable events are parked on DeadLetterStream.
const StreamName = "applications:vacancy:events"
const ConsumerGroup = "vacancy-consumers"
const DeadLetterStream = "applications:vacancy:dead-letter"

// EventTypeVacancy is the only envelope type this worker handles; messages
// carrying any other non-empty type are acknowledged and ignored.
const EventTypeVacancy = "job_vacancy"

// VacancyMessage is the stream envelope. Payload is the vacancy event JSON
// as defined by the wire contract; Source and Timestamp identify the
// producing bot.
type VacancyMessage struct {
	Type      string
	Source    string
	Timestamp string
	Payload   string
}
