package common

type Observer interface {
	Update(event MessageEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event MessageEvent)
	NotifyAsync(event MessageEvent)
}
