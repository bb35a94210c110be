package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// transitionTimestamps maps a target status to the audit timestamp it stamps.
var transitionTimestamps = map[models.ProjectStatus]string{
	models.StatusAgreedScheduled:   "acceptedAt",
	models.StatusInProgress:        "depositPaidAt",
	models.StatusPendingCompletion: "markedCompleteAt",
	models.StatusCompleted:         "completedAt",
	models.StatusCancelled:         "cancelledAt",
}

// TransitionProject conditionally moves a project into the target status.
// The condition re-checks the current status inside DynamoDB, so a concurrent
// writer loses cleanly with an InvalidTransitionError instead of overwriting.
func (s *Store) TransitionProject(ctx context.Context, projectID string, from []models.ProjectStatus, to models.ProjectStatus, patch *storage.ProjectPatch) (*models.Project, error) {
	if len(from) == 0 {
		return nil, fmt.Errorf("transition to %q requires at least one allowed pre-state", to)
	}
	// The transition table stays authoritative regardless of what pre-state
	// list a caller passes in.
	for _, f := range from {
		if err := models.ValidateTransition(f, to); err != nil {
			return nil, err
		}
	}

	names := map[string]string{"#status": "status"}
	values := map[string]types.AttributeValue{
		":to":  &types.AttributeValueMemberS{Value: string(to)},
		":now": timeAV(time.Now()),
	}

	setParts := []string{"#status = :to", "updatedAt = :now"}
	if attr, ok := transitionTimestamps[to]; ok {
		setParts = append(setParts, fmt.Sprintf("%s = :now", attr))
	}

	if patch != nil {
		if err := applyPatch(patch, &setParts, values); err != nil {
			return nil, err
		}
	}

	placeholders := make([]string, len(from))
	for i, f := range from {
		p := fmt.Sprintf(":from%d", i)
		placeholders[i] = p
		values[p] = &types.AttributeValueMemberS{Value: string(f)}
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.ProjectsTableName),
		Key:                       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: projectID}},
		UpdateExpression:          aws.String("SET " + strings.Join(setParts, ", ")),
		ConditionExpression:       aws.String(fmt.Sprintf("attribute_exists(id) AND #status IN (%s)", strings.Join(placeholders, ", "))),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, s.explainTransitionFailure(ctx, projectID, to)
		}
		return nil, fmt.Errorf("failed to transition project %s: %w", projectID, err)
	}

	var project models.Project
	if err := attributevalue.UnmarshalMap(result.Attributes, &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transitioned project: %w", err)
	}

	return &project, nil
}

// explainTransitionFailure re-reads the project so the error names the actual
// current status the caller raced against.
func (s *Store) explainTransitionFailure(ctx context.Context, projectID string, requested models.ProjectStatus) error {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return storage.ErrProjectNotFound
		}
		return fmt.Errorf("transition to %q rejected and re-read failed: %w", requested, err)
	}
	return &models.InvalidTransitionError{Current: project.Status, Requested: requested}
}

func applyPatch(patch *storage.ProjectPatch, setParts *[]string, values map[string]types.AttributeValue) error {
	set := func(attr, placeholder string, av types.AttributeValue) {
		*setParts = append(*setParts, fmt.Sprintf("%s = %s", attr, placeholder))
		values[placeholder] = av
	}

	if patch.HandymanId != nil {
		set("handymanId", ":handymanId", &types.AttributeValueMemberS{Value: *patch.HandymanId})
	}
	if patch.AcceptedOfferId != nil {
		set("acceptedOfferId", ":acceptedOfferId", &types.AttributeValueMemberS{Value: *patch.AcceptedOfferId})
	}
	if patch.ConfirmedBy != nil {
		set("confirmedBy", ":confirmedBy", &types.AttributeValueMemberS{Value: *patch.ConfirmedBy})
	}
	for attr, m := range map[string]*models.Money{
		"agreedBudget":   patch.AgreedBudget,
		"adjustedBudget": patch.AdjustedBudget,
		"depositAmount":  patch.DepositAmount,
	} {
		if m == nil {
			continue
		}
		av, err := attributevalue.Marshal(*m)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", attr, err)
		}
		set(attr, ":"+attr, av)
	}
	return nil
}

// timeAV marshals a timestamp the same way attributevalue does for struct
// fields, so transition stamps and full-document writes stay comparable.
func timeAV(t time.Time) types.AttributeValue {
	b, _ := t.MarshalText()
	return &types.AttributeValueMemberS{Value: string(b)}
}
