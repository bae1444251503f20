// internal/service/storecredit/domain/actor.go
package domain

// ActorType 是事件发起者的封闭集合，只有两种显式变体，按类型显式分发。
type ActorType string

const (
	ActorAdmin  ActorType = "ADMIN"  // 管理员操作（后台创建、编辑、作废）
	ActorSystem ActorType = "SYSTEM" // 系统自动操作（下单分摊、扣款、礼品卡兑换）
)

// Actor 标识一次余额变更的发起者。
type Actor struct {
	Type ActorType
	ID   string
}

func AdminActor(id string) Actor {
	return Actor{Type: ActorAdmin, ID: id}
}

func SystemActor() Actor {
	return Actor{Type: ActorSystem, ID: "system"}
}
